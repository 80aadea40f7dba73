package extraction

import (
	"context"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/mholt/archives"
	"github.com/pkg/errors"
)

// imageContentTypes maps the extensions the gallery imports to their MIME types.
var imageContentTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// DetectContentType returns the image MIME type for filename, or "" when the
// extension is not an importable image.
func DetectContentType(filename string) string {
	return imageContentTypes[strings.ToLower(filepath.Ext(filename))]
}

// ShouldIgnoreFile checks if a file should be ignored (system files, hidden files, etc.)
func ShouldIgnoreFile(name string) bool {
	filename := path.Base(filepath.ToSlash(name))
	// macOS resource forks and other hidden files, including .DS_Store
	if strings.HasPrefix(filename, ".") {
		return true
	}
	if strings.ToLower(filename) == "thumbs.db" {
		return true
	}
	if strings.Contains(filepath.ToSlash(name), "__MACOSX/") {
		return true
	}
	// empty folder markers
	if filename == "" || strings.HasSuffix(name, "/") {
		return true
	}
	return false
}

// ExtractArchive extracts the contents of a ZIP, TAR, 7z or RAR archive to a
// temporary directory. The caller removes the returned directory.
func ExtractArchive(ctx context.Context, archivePath string) ([]string, string, error) {
	destDir, err := os.MkdirTemp("", "extract-*")
	if err != nil {
		return nil, "", err
	}

	fsys, err := archives.FileSystem(ctx, archivePath, nil)
	if err != nil {
		os.RemoveAll(destDir)
		return nil, "", errors.Wrapf(err, "opening archive %s", archivePath)
	}

	var files []string
	err = fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() {
			return nil
		}
		destPath := filepath.Join(destDir, filepath.FromSlash(p))
		// reject entries such as ../../etc/passwd
		if !strings.HasPrefix(destPath, filepath.Clean(destDir)+string(os.PathSeparator)) {
			return errors.Errorf("archive entry %q escapes extraction directory", p)
		}
		if err := copyEntry(fsys, p, destPath); err != nil {
			return err
		}
		files = append(files, destPath)
		return nil
	})
	if err != nil {
		os.RemoveAll(destDir)
		return nil, "", err
	}

	return files, destDir, nil
}

func copyEntry(fsys fs.FS, name, destPath string) error {
	reader, err := fsys.Open(name)
	if err != nil {
		return err
	}
	defer reader.Close()

	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return err
	}

	outFile, err := os.Create(destPath)
	if err != nil {
		return err
	}
	defer outFile.Close()

	_, err = io.Copy(outFile, reader)
	return err
}
