// Package lockfile provides read/write/verify for chekov.lock files.
// The lock file tracks the integrity of migration files using SHA-256
// checksums: an aggregate hash on the first line, then one
// `checksum filename` line per migration.
package lockfile

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/chekov-db/chekov/internal/ckerr"
)

// Entry is one migration file's recorded checksum.
type Entry struct {
	Filename string
	Checksum string
}

// LockFile is the parsed contents of a chekov.lock file.
type LockFile struct {
	Aggregate string  // SHA-256 over all individual checksums
	Entries   []Entry // Per-file checksums, sorted by filename
}

// Read parses the lock file at path. Returns nil if the file does not
// exist.
func Read(path string) (*LockFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, ckerr.Wrap(ckerr.ErrLockCorrupt, err, "failed to read lock file").
			With("path", path)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) == "" {
		return nil, ckerr.New(ckerr.ErrLockCorrupt, "lock file is empty").
			With("path", path)
	}

	lf := &LockFile{
		Aggregate: strings.TrimSpace(lines[0]),
	}

	for i, line := range lines[1:] {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		checksum, filename, ok := strings.Cut(line, " ")
		if !ok {
			return nil, ckerr.New(ckerr.ErrLockCorrupt, "malformed lock file entry").
				With("path", path).
				With("line", i+2)
		}
		lf.Entries = append(lf.Entries, Entry{
			Filename: strings.TrimSpace(filename),
			Checksum: checksum,
		})
	}

	return lf, nil
}

// Write generates and writes the lock file for the given migrations
// directory.
func Write(migrationsDir, lockPath string) error {
	entries, err := computeEntries(migrationsDir)
	if err != nil {
		return err
	}

	var sb strings.Builder
	sb.WriteString(computeAggregate(entries) + "\n")
	for _, e := range entries {
		sb.WriteString(fmt.Sprintf("%s %s\n", e.Checksum, e.Filename))
	}

	if err := os.MkdirAll(filepath.Dir(lockPath), 0755); err != nil {
		return fmt.Errorf("failed to create lock file directory: %w", err)
	}

	return os.WriteFile(lockPath, []byte(sb.String()), 0644)
}

// VerificationResult holds the outcome of a lock file check.
type VerificationResult struct {
	Valid          bool     // Overall validity
	LockFileExists bool     // Whether the lock file exists
	AggregateMatch bool     // Whether the aggregate checksum matches
	NewFiles       []string // Files on disk but not in lock
	RemovedFiles   []string // Files in lock but not on disk
	ModifiedFiles  []string // Files with checksum mismatches
	VerifiedFiles  []string // Files that passed verification
}

// Verify checks the lock file against the current migration files and
// returns structured results for CLI display.
func Verify(migrationsDir, lockPath string) (*VerificationResult, error) {
	result := &VerificationResult{
		Valid:          true,
		LockFileExists: true,
		AggregateMatch: true,
	}

	lf, err := Read(lockPath)
	if err != nil {
		return nil, err
	}
	if lf == nil {
		result.LockFileExists = false
		result.Valid = false
		return result, nil
	}

	entries, err := computeEntries(migrationsDir)
	if err != nil {
		return nil, err
	}

	if computeAggregate(entries) != lf.Aggregate {
		result.AggregateMatch = false
		result.Valid = false
	}

	lockMap := make(map[string]string, len(lf.Entries))
	for _, e := range lf.Entries {
		lockMap[e.Filename] = e.Checksum
	}

	onDisk := make(map[string]bool, len(entries))
	for _, e := range entries {
		onDisk[e.Filename] = true

		recorded, ok := lockMap[e.Filename]
		switch {
		case !ok:
			result.NewFiles = append(result.NewFiles, e.Filename)
			result.Valid = false
		case recorded != e.Checksum:
			result.ModifiedFiles = append(result.ModifiedFiles, e.Filename)
			result.Valid = false
		default:
			result.VerifiedFiles = append(result.VerifiedFiles, e.Filename)
		}
	}

	for _, e := range lf.Entries {
		if !onDisk[e.Filename] {
			result.RemovedFiles = append(result.RemovedFiles, e.Filename)
			result.Valid = false
		}
	}

	return result, nil
}

// DefaultPath returns the default lock file path, next to chekov.yaml.
func DefaultPath() string {
	return "chekov.lock"
}

// computeEntries checksums every .yaml migration file in the directory,
// sorted by filename.
func computeEntries(migrationsDir string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(migrationsDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read migrations directory: %w", err)
	}

	var entries []Entry
	for _, de := range dirEntries {
		if de.IsDir() || !strings.HasSuffix(de.Name(), ".yaml") {
			continue
		}
		data, err := os.ReadFile(filepath.Join(migrationsDir, de.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", de.Name(), err)
		}
		sum := sha256.Sum256(data)
		entries = append(entries, Entry{
			Filename: de.Name(),
			Checksum: hex.EncodeToString(sum[:]),
		})
	}

	slices.SortFunc(entries, func(a, b Entry) int {
		return strings.Compare(a.Filename, b.Filename)
	})

	return entries, nil
}

func computeAggregate(entries []Entry) string {
	h := sha256.New()
	for _, e := range entries {
		h.Write([]byte(e.Checksum))
	}
	return hex.EncodeToString(h.Sum(nil))
}
