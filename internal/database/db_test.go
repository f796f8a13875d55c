package database

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDSN(t *testing.T) {
	s := dsn("sched", "secret", "db.internal", "3306", "training")
	require.True(t, strings.HasPrefix(s, "sched:secret@tcp(db.internal:3306)/training"), s)
	require.Contains(t, s, "parseTime=true")
	require.Contains(t, s, "charset=utf8mb4")
}

func TestDSNEmptyPassword(t *testing.T) {
	s := dsn("sched", "", "localhost", "3306", "training")
	require.True(t, strings.HasPrefix(s, "sched@tcp(localhost:3306)/training"), s)
}
