package site

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// copyPassthrough copies every file under srcDir matching include and not
// exclude into outDir, keeping relative paths. It returns the number of files
// copied.
func copyPassthrough(srcDir, outDir string, include, exclude []string) (int, error) {
	copied := 0
	err := filepath.WalkDir(srcDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(srcDir, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}
		if d.IsDir() {
			if matchesAny(rel, exclude) || matchesAny(rel+"/", exclude) {
				return filepath.SkipDir
			}
			return nil
		}
		if !matchesAny(rel, include) || matchesAny(rel, exclude) {
			return nil
		}
		if err := copyFile(p, filepath.Join(outDir, filepath.FromSlash(rel))); err != nil {
			return fmt.Errorf("copying %s: %w", rel, err)
		}
		copied++
		return nil
	})
	return copied, err
}

// copyFile copies a single file.
func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}

	srcFile, err := os.Open(src)
	if err != nil {
		return err
	}
	defer srcFile.Close()

	dstFile, err := os.Create(dst)
	if err != nil {
		return err
	}

	_, err = io.Copy(dstFile, srcFile)
	return closeAfter(dstFile, err)
}

// closeAfter closes a written file and reports the close error when the
// write itself succeeded.
func closeAfter(c io.Closer, err error) error {
	if cerr := c.Close(); err == nil {
		err = cerr
	}
	return err
}
