// AngelaMos | 2026
// database_test.go

package core

import (
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsDuplicateKeyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"unique violation", &pgconn.PgError{Code: "23505"}, true},
		{"wrapped", fmt.Errorf("insert user: %w", &pgconn.PgError{Code: "23505"}), true},
		{"foreign key", &pgconn.PgError{Code: "23503"}, false},
		{"not postgres", sql.ErrNoRows, false},
		{"nil", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsDuplicateKeyError(tt.err))
		})
	}
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\% off`, EscapeLike("50% off"))
	assert.Equal(t, `snake\_case`, EscapeLike("snake_case"))
	assert.Equal(t, `C:\\dir`, EscapeLike(`C:\dir`))
	assert.Equal(t, "plain", EscapeLike("plain"))
}

func TestPoolStats(t *testing.T) {
	got := poolStats(sql.DBStats{
		MaxOpenConnections: 25,
		OpenConnections:    4,
		InUse:              1,
		Idle:               3,
		WaitCount:          2,
		WaitDuration:       1500 * time.Millisecond,
	})

	assert.Equal(t, &DBPoolStats{
		MaxOpenConnections: 25,
		OpenConnections:    4,
		InUse:              1,
		Idle:               3,
		WaitCount:          2,
		WaitDuration:       "1.5s",
	}, got)
}
