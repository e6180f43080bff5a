// Package seed bulk-loads posts from front-matter-annotated markdown
// documents. Each document carries title, date, excerpt, and category
// metadata; the markdown body is converted to HTML and stored as the
// post's rich-text body.
package seed

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"github.com/yuin/goldmark"

	"inkwell/internal/post"
)

// frontMatter is the metadata block preceding a seed document's body.
type frontMatter struct {
	Title    string    `yaml:"title"`
	Slug     string    `yaml:"slug"`
	Date     time.Time `yaml:"date"`
	Excerpt  string    `yaml:"excerpt"`
	Category string    `yaml:"category"`
	Draft    bool      `yaml:"draft"`
}

// LoadDir loads every .md document under dir into the post service,
// attributed to the given author. Documents whose slug already exists are
// skipped, so seeding is idempotent. Returns the number of posts created.
func LoadDir(ctx context.Context, svc *post.Service, authorID int64, dir string) (int, error) {
	root := os.DirFS(dir)
	md := goldmark.New()

	created := 0
	err := fs.WalkDir(root, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".md") {
			return nil
		}

		source, err := fs.ReadFile(root, path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}

		var meta frontMatter
		body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
		if err != nil {
			return fmt.Errorf("parsing front matter of %s: %w", path, err)
		}

		var html bytes.Buffer
		if err := md.Convert(body, &html); err != nil {
			return fmt.Errorf("converting %s: %w", path, err)
		}

		input := post.Input{
			Title:     meta.Title,
			Slug:      meta.Slug,
			Excerpt:   meta.Excerpt,
			Category:  meta.Category,
			BodyHTML:  html.String(),
			Published: !meta.Draft,
		}
		if !meta.Date.IsZero() {
			date := meta.Date
			input.PublishedAt = &date
		}

		p, err := svc.Create(ctx, input, authorID)
		if err != nil {
			if verrs, ok := post.AsValidationErrors(err); ok {
				// Already-seeded documents fail the slug uniqueness check
				slog.Info("skipping seed document", "path", path, "reason", verrs.Error())
				return nil
			}
			return fmt.Errorf("creating post from %s: %w", path, err)
		}

		slog.Info("seeded post", "slug", p.Slug, "source", filepath.Base(path))
		created++
		return nil
	})
	if err != nil {
		return created, fmt.Errorf("seeding from %s: %w", dir, err)
	}

	return created, nil
}
