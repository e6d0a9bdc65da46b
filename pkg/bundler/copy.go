package bundler

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/joshua-decoder/joshua-bundle/pkg/errors"
	"github.com/joshua-decoder/joshua-bundle/pkg/joshua"
)

// copyChunkSize is the largest read issued against the rate limiter at once.
const copyChunkSize = 256 * 1024

// CopyOptions controls CopyReferencedFiles.
type CopyOptions struct {
	// Jobs is the number of references copied concurrently. Values below 1 mean 1.
	Jobs int

	// BytesPerSecond caps total copy throughput. Zero means unlimited.
	BytesPerSecond int64

	// Resolver resolves source and destination paths.
	Resolver PathResolver

	// observe is called after each successful copy.
	observe func(CopiedFile, time.Duration)
}

type copyTask struct {
	line joshua.Line
	src  string
	dst  string
}

// CopyReferencedFiles copies the file or directory named by every
// file-bearing line of cfg into destDir under its base name. The first
// failure aborts the run; files already copied are left in place.
func CopyReferencedFiles(ctx context.Context, originDir string, cfg *joshua.Config, destDir string, opts CopyOptions) ([]CopiedFile, error) {
	tasks, err := planCopies(originDir, cfg, destDir, opts.Resolver)
	if err != nil {
		return nil, err
	}

	jobs := opts.Jobs
	if jobs < 1 {
		jobs = 1
	}

	var limiter *rate.Limiter
	if opts.BytesPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.BytesPerSecond), burstFor(opts.BytesPerSecond))
	}

	copied := make([]CopiedFile, len(tasks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i, task := range tasks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return errors.Wrap(errors.ErrCodeTimeout, "copy cancelled", err)
			}

			start := time.Now()
			c, err := copyReference(gctx, task, limiter)
			if err != nil {
				slog.Error("failed to copy reference",
					"line", task.line.Number,
					"source", task.src,
					"error", err,
				)
				return err
			}
			copied[i] = c

			slog.Debug("reference copied",
				"key", c.Key,
				"source", c.Source,
				"dest", c.Dest,
				"size_bytes", c.Size,
			)
			if opts.observe != nil {
				opts.observe(c, time.Since(start))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return copied, nil
}

// planCopies resolves every file-bearing line. References to the same source
// are copied once. When two different sources share a base name, the later
// line wins, matching a sequential copy.
func planCopies(originDir string, cfg *joshua.Config, destDir string, resolver PathResolver) ([]copyTask, error) {
	var tasks []copyTask
	byDest := make(map[string]int)

	for _, line := range cfg.FileLines() {
		src, err := resolver.Source(originDir, line)
		if err != nil {
			return nil, err
		}
		dst, err := resolver.Dest(destDir, line)
		if err != nil {
			return nil, err
		}

		if i, ok := byDest[dst]; ok {
			if tasks[i].src != src {
				slog.Warn("bundle file name collision, later reference wins",
					"name", filepath.Base(dst),
					"line", line.Number,
					"source", src,
					"replaced_line", tasks[i].line.Number,
					"replaced_source", tasks[i].src,
				)
				tasks[i] = copyTask{line: line, src: src, dst: dst}
			}
			continue
		}

		byDest[dst] = len(tasks)
		tasks = append(tasks, copyTask{line: line, src: src, dst: dst})
	}
	return tasks, nil
}

func copyReference(ctx context.Context, task copyTask, limiter *rate.Limiter) (CopiedFile, error) {
	c := CopiedFile{
		Line:   task.line.Number,
		Key:    task.line.Key,
		Source: task.src,
		Dest:   task.dst,
	}

	info, err := os.Stat(task.src)
	if err != nil {
		code := errors.ErrCodeInternal
		if os.IsNotExist(err) {
			code = errors.ErrCodeNotFound
		}
		return c, errors.WrapWithContext(code,
			fmt.Sprintf("line %d: cannot copy %s", task.line.Number, task.src), err,
			map[string]any{"line": task.line.Number, "source": task.src})
	}

	if info.IsDir() {
		c.Dir = true
		c.Size, err = copyTree(ctx, task.src, task.dst, limiter)
	} else {
		c.Size, err = copyFile(ctx, task.src, task.dst, info.Mode(), limiter)
	}
	if err != nil {
		return c, errors.WrapWithContext(errors.ErrCodeInternal,
			fmt.Sprintf("line %d: failed to copy %s", task.line.Number, task.src), err,
			map[string]any{"line": task.line.Number, "source": task.src, "dest": task.dst})
	}
	return c, nil
}

// copyFile copies src to dst and gives dst the permission bits of mode.
func copyFile(ctx context.Context, src, dst string, mode fs.FileMode, limiter *rate.Limiter) (n int64, err error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, mode.Perm())
	if err != nil {
		return 0, err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	var r io.Reader = in
	if limiter != nil {
		r = &limitedReader{ctx: ctx, r: in, limiter: limiter}
	}

	if n, err = io.Copy(out, r); err != nil {
		return n, err
	}
	// OpenFile applies the umask; match the source exactly.
	return n, out.Chmod(mode.Perm())
}

// copyTree copies the directory src to dst, following symbolic links.
func copyTree(ctx context.Context, src, dst string, limiter *rate.Limiter) (int64, error) {
	// WalkDir does not descend into a symlinked root.
	root, err := filepath.EvalSymlinks(src)
	if err != nil {
		return 0, err
	}
	src = root

	var total int64
	err = filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		info, err := os.Stat(path)
		if err != nil {
			return err
		}

		switch {
		case d.IsDir():
			return os.MkdirAll(target, info.Mode().Perm()|0o700)
		case info.IsDir():
			// symlink to a directory
			n, err := copyTree(ctx, path, target, limiter)
			total += n
			return err
		default:
			n, err := copyFile(ctx, path, target, info.Mode(), limiter)
			total += n
			return err
		}
	})
	return total, err
}

// limitedReader throttles reads through a shared limiter.
type limitedReader struct {
	ctx     context.Context
	r       io.Reader
	limiter *rate.Limiter
}

func (l *limitedReader) Read(p []byte) (int, error) {
	if burst := l.limiter.Burst(); len(p) > burst {
		p = p[:burst]
	}
	n, err := l.r.Read(p)
	if n > 0 {
		if werr := l.limiter.WaitN(l.ctx, n); werr != nil {
			return n, werr
		}
	}
	return n, err
}

func burstFor(bytesPerSecond int64) int {
	if bytesPerSecond < copyChunkSize {
		return int(bytesPerSecond)
	}
	return copyChunkSize
}
