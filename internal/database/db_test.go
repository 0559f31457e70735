package database

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/theatre-reservation/internal/config"
)

func TestDSN(t *testing.T) {
	cfg := config.Config{
		DBUser: "theatre",
		DBPass: "s3cret",
		DBHost: "db.internal",
		DBPort: "3306",
		DBName: "reservations",
	}
	assert.Equal(t,
		"theatre:s3cret@tcp(db.internal:3306)/reservations?charset=utf8mb4&parseTime=true&loc=UTC",
		DSN(cfg))
}

func TestDSNWithoutPassword(t *testing.T) {
	cfg := config.Config{
		DBUser: "theatre",
		DBHost: "localhost",
		DBPort: "3307",
		DBName: "reservations",
	}
	assert.Equal(t,
		"theatre@tcp(localhost:3307)/reservations?charset=utf8mb4&parseTime=true&loc=UTC",
		DSN(cfg))
}
