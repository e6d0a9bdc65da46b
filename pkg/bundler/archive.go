package bundler

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"

	"github.com/joshua-decoder/joshua-bundle/pkg/errors"
)

// WriteArchive zips bundleDir into archivePath. Entries are stored under the
// bundle directory's base name and keep their modes, so the launcher stays
// executable after extraction.
func WriteArchive(ctx context.Context, bundleDir, archivePath string) error {
	absBundle, err := filepath.Abs(bundleDir)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidRequest, "failed to resolve bundle directory", err)
	}
	absArchive, err := filepath.Abs(archivePath)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidRequest, "failed to resolve archive path", err)
	}
	if withinDir(absBundle, absArchive) {
		return errors.New(errors.ErrCodeInvalidRequest,
			fmt.Sprintf("archive %s must not be inside the bundle directory", archivePath))
	}

	pending, err := renameio.NewPendingFile(absArchive)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to create archive", err)
	}
	defer func() {
		_ = pending.Cleanup()
	}()

	if err := writeZip(ctx, pending, absBundle); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to archive bundle", err)
	}

	if err := pending.CloseAtomicallyReplace(); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, "failed to finalize archive", err)
	}
	return nil
}

func writeZip(ctx context.Context, w io.Writer, dir string) error {
	zw := zip.NewWriter(w)
	prefix := filepath.Base(dir)

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return fmt.Errorf("walk error: %w", err)
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		relPath, err := filepath.Rel(dir, path)
		if err != nil {
			return fmt.Errorf("failed to get relative path: %w", err)
		}

		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return fmt.Errorf("failed to create file header: %w", err)
		}
		header.Name = filepath.ToSlash(filepath.Join(prefix, relPath))

		if info.IsDir() {
			header.Name += "/"
			_, headerErr := zw.CreateHeader(header)
			return headerErr
		}
		if !info.Mode().IsRegular() {
			return fmt.Errorf("unsupported file type %s: %s", info.Mode().Type(), path)
		}

		header.Method = zip.Deflate

		writer, err := zw.CreateHeader(header)
		if err != nil {
			return fmt.Errorf("failed to create zip entry: %w", err)
		}

		file, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open file: %w", err)
		}
		defer file.Close()

		if _, err := io.Copy(writer, file); err != nil {
			return fmt.Errorf("failed to copy file content: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	return zw.Close()
}
