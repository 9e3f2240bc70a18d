package file

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
)

// LoadDotEnv exports the variables of the given .env files into the process
// environment. Variables already set win. Missing files are skipped; with no
// arguments ./.env is read.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}
