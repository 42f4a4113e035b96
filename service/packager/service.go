// Package packager builds the release tarballs and their checksum manifest.
package packager

import (
	"archive/tar"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/thirukguru/release-cutter/model"
	"github.com/thirukguru/release-cutter/shared/logger"
	"github.com/thirukguru/release-cutter/shared/pathmatch"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// NewService creates a packager for opts.
func NewService(opts Options, l *zap.Logger) (Service, error) {
	if opts.OutputDir == "" {
		opts.OutputDir = "dist"
	}
	if !filepath.IsAbs(opts.OutputDir) {
		opts.OutputDir = filepath.Join(opts.RepoDir, opts.OutputDir)
	}
	if opts.ModTime.IsZero() {
		opts.ModTime = time.Unix(0, 0).UTC()
	}

	excludes := append([]string(nil), opts.Exclude...)
	if rel, err := filepath.Rel(opts.RepoDir, opts.OutputDir); err == nil && !strings.HasPrefix(rel, "..") && rel != "." {
		excludes = append(excludes, filepath.ToSlash(rel)+"/**")
	}
	exclude, err := pathmatch.Compile(excludes)
	if err != nil {
		return nil, fmt.Errorf("invalid exclude pattern: %w", err)
	}
	quickStart, err := pathmatch.Compile(opts.QuickStart)
	if err != nil {
		return nil, fmt.Errorf("invalid quick-start pattern: %w", err)
	}
	return &service{opts: opts, exclude: exclude, quickStart: quickStart, logger: logger.OrNop(l)}, nil
}

// AssetNames returns the tarball names for version.
func AssetNames(project, version string) (full, quickStart string) {
	v := "v" + strings.TrimPrefix(version, "v")
	return fmt.Sprintf("%s-%s.tar.gz", project, v), fmt.Sprintf("%s-quickstart-%s.tar.gz", project, v)
}

// Plan returns the asset file names Build would produce, without touching disk.
func (s *service) Plan(version string) ([]string, error) {
	full, quick := AssetNames(s.opts.Project, version)
	return []string{full, quick, ChecksumsFile}, nil
}

// Build writes the full and quick-start tarballs concurrently, then the checksums.
func (s *service) Build(ctx context.Context, version string) (Result, error) {
	files, err := s.collect()
	if err != nil {
		return Result{}, err
	}

	var quick []string
	for _, f := range files {
		if s.quickStart.Match(f) {
			quick = append(quick, f)
		}
	}
	if len(quick) == 0 {
		return Result{}, fmt.Errorf("%w (patterns: %s)", ErrEmptyQuickStart, strings.Join(s.quickStart.Patterns(), ", "))
	}

	if err := os.MkdirAll(s.opts.OutputDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("failed to create output dir: %w", err)
	}

	v := "v" + strings.TrimPrefix(version, "v")
	fullName, quickName := AssetNames(s.opts.Project, version)
	bundles := []bundle{
		{name: fullName, prefix: fmt.Sprintf("%s-%s/", s.opts.Project, v), files: files},
		{name: quickName, prefix: fmt.Sprintf("%s-quickstart-%s/", s.opts.Project, v), files: quick},
	}

	assets := make([]model.Asset, len(bundles))
	g, gctx := errgroup.WithContext(ctx)
	for i, b := range bundles {
		g.Go(func() error {
			asset, err := s.writeTarball(gctx, b)
			if err != nil {
				return fmt.Errorf("failed to build %s: %w", b.name, err)
			}
			assets[i] = asset
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	checksumsPath, err := writeChecksums(s.opts.OutputDir, assets)
	if err != nil {
		return Result{}, err
	}
	s.logger.Info("release assets built",
		zap.Int("files", len(files)),
		zap.Int("quickstart_files", len(quick)),
		zap.String("output_dir", s.opts.OutputDir))
	return Result{Assets: assets, ChecksumsPath: checksumsPath}, nil
}

// collect walks the repository and returns sorted, slash-separated relative paths.
func (s *service) collect() ([]string, error) {
	var files []string
	err := filepath.WalkDir(s.opts.RepoDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(s.opts.RepoDir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if s.exclude.Match(rel+"/") || s.exclude.Match(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || s.exclude.Match(rel) {
			return nil
		}
		files = append(files, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", s.opts.RepoDir, err)
	}
	sort.Strings(files)
	return files, nil
}

func (s *service) writeTarball(ctx context.Context, b bundle) (asset model.Asset, err error) {
	path := filepath.Join(s.opts.OutputDir, b.name)
	f, err := os.Create(path)
	if err != nil {
		return model.Asset{}, err
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = cerr
		}
	}()

	hasher := sha256.New()
	counter := &countingWriter{w: io.MultiWriter(f, hasher)}
	gz, err := gzip.NewWriterLevel(counter, gzip.BestCompression)
	if err != nil {
		return model.Asset{}, err
	}
	tw := tar.NewWriter(gz)

	for _, rel := range b.files {
		if err := ctx.Err(); err != nil {
			return model.Asset{}, err
		}
		if err := s.addFile(tw, b.prefix, rel); err != nil {
			return model.Asset{}, err
		}
	}
	if err := tw.Close(); err != nil {
		return model.Asset{}, err
	}
	if err := gz.Close(); err != nil {
		return model.Asset{}, err
	}

	return model.Asset{
		Name:   b.name,
		Path:   path,
		SHA256: hex.EncodeToString(hasher.Sum(nil)),
		Size:   counter.n,
	}, nil
}

func (s *service) addFile(tw *tar.Writer, prefix, rel string) error {
	src := filepath.Join(s.opts.RepoDir, filepath.FromSlash(rel))
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	mode := int64(0o644)
	if info.Mode().Perm()&0o111 != 0 {
		mode = 0o755
	}
	hdr := &tar.Header{
		Typeflag: tar.TypeReg,
		Name:     prefix + rel,
		Mode:     mode,
		Size:     info.Size(),
		ModTime:  s.opts.ModTime,
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	_, err = io.Copy(tw, in)
	return err
}

func writeChecksums(dir string, assets []model.Asset) (string, error) {
	sorted := append([]model.Asset(nil), assets...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	var b strings.Builder
	for _, a := range sorted {
		// two spaces: the format `sha256sum -c` expects
		fmt.Fprintf(&b, "%s  %s\n", a.SHA256, a.Name)
	}
	path := filepath.Join(dir, ChecksumsFile)
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("failed to write checksums: %w", err)
	}
	return path, nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
