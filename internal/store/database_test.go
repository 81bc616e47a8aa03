package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMigrationFilesShipWithRepository(t *testing.T) {
	// Every file RunMigrations will try to apply must exist under the
	// repository's migrations directory.
	for _, name := range migrationFiles {
		_, err := os.Stat(filepath.Join("..", "..", "migrations", name))
		assert.NoError(t, err, name)
	}
}
