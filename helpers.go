package notionblog

import (
	"encoding/json"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/hoafnganh/notionblog/toc"
)

// Slugify converts a title to a URL-safe slug.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	prev := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prev = false
		default:
			if !prev && b.Len() > 0 {
				b.WriteByte('-')
				prev = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// BuildURL joins a base URL with path segments, ensuring a trailing slash.
func BuildURL(base string, pathSegments ...string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	u.Path = path.Join(u.Path, path.Join(pathSegments...))
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	return u.String()
}

// FilterEmpty trims every value and drops the empty ones.
func FilterEmpty(vals []string) []string {
	var out []string
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// FilterRelatedPages finds pages that share at least one tag with current.
func FilterRelatedPages(current Page, pages []Page) []Page {
	tagSet := make(map[string]struct{})
	for _, t := range current.Tags {
		if tag := normalizeTag(t); tag != "" {
			tagSet[tag] = struct{}{}
		}
	}
	var related []Page
	for _, p := range pages {
		if p.Slug == current.Slug {
			continue
		}
		for _, t := range p.Tags {
			if _, ok := tagSet[normalizeTag(t)]; ok {
				related = append(related, p)
				break
			}
		}
	}
	return related
}

// JoinTags joins tags with ", ".
func JoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}

// ContentsLabel is the heading of the table of contents for lang.
func ContentsLabel(lang string) string {
	switch strings.ToLower(strings.SplitN(lang, "-", 2)[0]) {
	case "vi":
		return "Mục lục"
	case "ko":
		return "목차"
	case "ja":
		return "目次"
	case "zh":
		return "目录"
	case "es":
		return "Contenido"
	}
	return "Contents"
}

// Copyright returns the footer years, e.g. "2025" or "2023-2026".
func Copyright(cfg SiteConfig, now time.Time) string {
	year := now.Year()
	if cfg.Since == 0 || cfg.Since >= year {
		return strconv.Itoa(year)
	}
	return strconv.Itoa(cfg.Since) + "-" + strconv.Itoa(year)
}

// WebsiteJsonLD returns a JSON-LD string for a WebSite schema using SiteConfig.
func WebsiteJsonLD(cfg SiteConfig) string {
	data := map[string]interface{}{
		"@context":    "https://schema.org",
		"@type":       "WebSite",
		"name":        cfg.Name,
		"url":         BuildURL(cfg.URL),
		"description": cfg.Description,
		"inLanguage":  cfg.Lang,
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}

// BlogPostingJsonLD returns a JSON-LD string for a BlogPosting schema. The
// outline becomes hasPart entries linking to each heading.
func BlogPostingJsonLD(page Page, outline toc.Outline, cfg SiteConfig) string {
	pageURL := BuildURL(cfg.URL, "blog", page.Slug)
	data := map[string]interface{}{
		"@context":      "https://schema.org",
		"@type":         "BlogPosting",
		"headline":      page.Title,
		"description":   page.Summary,
		"datePublished": page.Date,
		"url":           pageURL,
		"inLanguage":    cfg.Lang,
		"mainEntityOfPage": map[string]string{
			"@type": "WebPage",
			"@id":   pageURL,
		},
	}
	if cfg.Author != "" {
		data["author"] = map[string]string{
			"@type": "Person",
			"name":  cfg.Author,
		}
	}
	if cfg.Name != "" {
		data["publisher"] = map[string]string{
			"@type": "Organization",
			"name":  cfg.Name,
		}
	}
	if len(page.Tags) > 0 {
		data["keywords"] = strings.Join(page.Tags, ", ")
	}
	if len(outline) > 0 {
		parts := make([]map[string]string, 0, len(outline))
		for _, e := range outline {
			parts = append(parts, map[string]string{
				"@type": "WebPageElement",
				"name":  e.Text,
				"url":   pageURL + "#" + e.ID,
			})
		}
		data["hasPart"] = parts
	}
	b, err := json.Marshal(data)
	if err != nil {
		return "{}"
	}
	return string(b)
}
