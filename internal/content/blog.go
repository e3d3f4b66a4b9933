package content

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultAuthor   = "Alora Team"
	defaultCategory = "General"

	// Average adult reading speed, same constant the frontend used.
	wordsPerMinute = 200
)

// Post is a blog article parsed from a markdown file with YAML
// frontmatter.
type Post struct {
	Slug        string
	Title       string
	Description string
	Date        time.Time
	Author      string
	Category    string
	Image       string
	ReadingTime string
	Content     string
}

type frontmatter struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Date        string `yaml:"date"`
	Author      string `yaml:"author"`
	Category    string `yaml:"category"`
	Image       string `yaml:"image"`
}

// LoadDir parses every .md/.mdx file under dir into posts sorted newest
// first. A missing directory yields an empty slice, matching a site that
// simply has no blog yet.
func LoadDir(dir string) ([]Post, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read blog directory: %w", err)
	}

	var posts []Post
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		ext := filepath.Ext(name)
		if ext != ".md" && ext != ".mdx" {
			continue
		}

		raw, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read post %s: %w", name, err)
		}

		post, err := Parse(strings.TrimSuffix(name, ext), raw)
		if err != nil {
			return nil, fmt.Errorf("parse post %s: %w", name, err)
		}

		posts = append(posts, post)
	}

	sort.Slice(posts, func(i, j int) bool {
		return posts[i].Date.After(posts[j].Date)
	})

	return posts, nil
}

// Parse builds a Post from raw markdown. Absent frontmatter fields fall
// back to neutral defaults so a bare markdown file still renders.
func Parse(slug string, raw []byte) (Post, error) {
	meta, body := splitFrontmatter(raw)

	var fm frontmatter
	if len(meta) > 0 {
		if err := yaml.Unmarshal(meta, &fm); err != nil {
			return Post{}, fmt.Errorf("frontmatter: %w", err)
		}
	}

	post := Post{
		Slug:        slug,
		Title:       fm.Title,
		Description: fm.Description,
		Author:      fm.Author,
		Category:    fm.Category,
		Image:       fm.Image,
		Content:     string(body),
		ReadingTime: readingTime(string(body)),
	}

	if post.Title == "" {
		post.Title = "Untitled"
	}
	if post.Author == "" {
		post.Author = defaultAuthor
	}
	if post.Category == "" {
		post.Category = defaultCategory
	}

	post.Date = parseDate(fm.Date)

	return post, nil
}

// splitFrontmatter separates a leading "---" delimited YAML block from
// the markdown body.
func splitFrontmatter(raw []byte) (meta, body []byte) {
	trimmed := bytes.TrimLeft(raw, "\ufeff\r\n")
	if !bytes.HasPrefix(trimmed, []byte("---")) {
		return nil, raw
	}

	rest := trimmed[3:]
	idx := bytes.Index(rest, []byte("\n---"))
	if idx < 0 {
		return nil, raw
	}

	meta = rest[:idx]
	body = rest[idx+4:]
	if nl := bytes.IndexByte(body, '\n'); nl >= 0 && len(bytes.TrimSpace(body[:nl])) == 0 {
		body = body[nl+1:]
	}

	return meta, body
}

func parseDate(raw string) time.Time {
	if raw == "" {
		return time.Now()
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02", "2006-01-02 15:04"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return time.Now()
}

func readingTime(body string) string {
	words := len(strings.Fields(body))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		minutes = 1
	}
	return fmt.Sprintf("%d min read", minutes)
}
