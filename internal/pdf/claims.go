package pdf

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultClaimsLimit caps directory listings when the request sets no limit
const DefaultClaimsLimit = 100

// ListClaims walks directory for PDF files whose name matches every word of
// query, skipping hidden directories and files the validator would reject.
// Results are sorted by path.
func (v *Validator) ListClaims(directory string, req ListClaimsRequest) (*ListClaimsResult, error) {
	if directory == "" {
		return nil, fmt.Errorf("directory cannot be empty")
	}

	absDirectory, err := filepath.Abs(directory)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve directory path: %w", err)
	}

	result := &ListClaimsResult{
		Directory: absDirectory,
		Query:     req.Query,
		Files:     []FileInfo{},
	}
	if _, err := os.Stat(absDirectory); os.IsNotExist(err) {
		return result, nil
	}

	limit := req.Limit
	if limit <= 0 {
		limit = DefaultClaimsLimit
	}
	words := strings.Fields(strings.ToLower(req.Query))

	err = filepath.WalkDir(absDirectory, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			// Unreadable entries are skipped, not fatal
			return nil
		}

		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != absDirectory {
				return filepath.SkipDir
			}
			return nil
		}

		if len(result.Files) >= limit {
			return filepath.SkipAll
		}

		if !matchesQuery(d.Name(), words) {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return nil
		}
		if err := v.ValidateFileInfo(path, info); err != nil {
			return nil
		}

		result.Files = append(result.Files, FileInfo{
			Path:         path,
			Name:         info.Name(),
			Size:         info.Size(),
			ModifiedTime: info.ModTime().Format("2006-01-02 15:04:05"),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking directory: %w", err)
	}

	sort.Slice(result.Files, func(i, j int) bool { return result.Files[i].Path < result.Files[j].Path })
	result.TotalCount = len(result.Files)
	return result, nil
}

func matchesQuery(filename string, words []string) bool {
	name := strings.ToLower(filename)
	for _, w := range words {
		if !strings.Contains(name, w) {
			return false
		}
	}
	return true
}
