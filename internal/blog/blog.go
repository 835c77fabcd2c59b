// Package blog serves the markdown articles shipped with the deployment.
// Posts are plain .md files with a YAML front matter block; the directory
// is read per request group and cached in memory.
package blog

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"odbyte/internal/middleware"
	"odbyte/internal/models"

	"gopkg.in/yaml.v3"
)

const frontMatterDelim = "---"

// Post is one parsed article.
type Post struct {
	Title    string    `json:"title" yaml:"title"`
	Slug     string    `json:"slug" yaml:"slug"`
	Date     time.Time `json:"date" yaml:"date"`
	Author   string    `json:"author" yaml:"author"`
	Category string    `json:"category" yaml:"category"`
	Excerpt  string    `json:"excerpt" yaml:"excerpt"`
	Body     string    `json:"body" yaml:"-"`
}

// Loader reads posts from a directory of markdown files.
type Loader struct {
	dir string

	mu     sync.RWMutex
	posts  []Post
	loaded bool
}

// NewLoader returns a Loader for the given content directory.
func NewLoader(dir string) *Loader {
	return &Loader{dir: dir}
}

// List returns all posts, newest first. A missing directory yields an
// empty list, not an error; a deployment without articles is valid.
func (l *Loader) List() ([]Post, error) {
	posts, err := l.load()
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// Get returns one post by slug.
func (l *Loader) Get(slug string) (*Post, error) {
	posts, err := l.load()
	if err != nil {
		return nil, err
	}
	for i := range posts {
		if posts[i].Slug == slug {
			return &posts[i], nil
		}
	}
	return nil, models.NewNotFoundError("Post", slug)
}

func (l *Loader) load() ([]Post, error) {
	l.mu.RLock()
	if l.loaded {
		defer l.mu.RUnlock()
		return l.posts, nil
	}
	l.mu.RUnlock()

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.loaded {
		return l.posts, nil
	}

	entries, err := os.ReadDir(l.dir)
	if err != nil {
		if os.IsNotExist(err) {
			l.posts = []Post{}
			l.loaded = true
			return l.posts, nil
		}
		return nil, models.NewInternalError(err)
	}

	posts := make([]Post, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(l.dir, entry.Name()))
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		post, err := parsePost(string(raw))
		if err != nil {
			// One malformed file must not take down the whole blog.
			middleware.Logger.Warn("Skipping malformed blog post",
				"file", entry.Name(), "error", err.Error())
			continue
		}
		if post.Slug == "" {
			post.Slug = strings.TrimSuffix(entry.Name(), ".md")
		}
		posts = append(posts, post)
	}

	sort.Slice(posts, func(i, j int) bool {
		return posts[i].Date.After(posts[j].Date)
	})

	l.posts = posts
	l.loaded = true
	return l.posts, nil
}

// parsePost splits a "---" delimited front matter block from the markdown
// body. Files without front matter are treated as body-only posts.
func parsePost(raw string) (Post, error) {
	var post Post

	trimmed := strings.TrimLeft(raw, "\uFEFF\n\r")
	if !strings.HasPrefix(trimmed, frontMatterDelim) {
		post.Body = raw
		return post, nil
	}

	rest := trimmed[len(frontMatterDelim):]
	idx := strings.Index(rest, "\n"+frontMatterDelim)
	if idx < 0 {
		return post, fmt.Errorf("unterminated front matter")
	}

	header := rest[:idx]
	body := rest[idx+len(frontMatterDelim)+1:]
	if err := yaml.Unmarshal([]byte(header), &post); err != nil {
		return post, fmt.Errorf("invalid front matter: %w", err)
	}

	post.Body = strings.TrimLeft(body, "\n\r")
	return post, nil
}
