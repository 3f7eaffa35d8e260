package content

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"os"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var md = goldmark.New(
	goldmark.WithExtensions(extension.Typographer),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// Markdown renders src to HTML. Raw HTML in src is dropped.
func Markdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// PlaceholderImage is served in place of images that do not exist.
const PlaceholderImage = "/assets/placeholder.svg"

const imagePattern = "**/*.{png,jpg,jpeg,gif,webp,svg}"

// Images indexes the image files below the static directory.
type Images struct {
	prefix string
	known  map[string]bool
}

// IndexImages walks dir for images served under prefix (e.g. "/static").
// A missing dir yields an empty index: every image resolves to the
// placeholder.
func IndexImages(dir, prefix string) (*Images, error) {
	im := &Images{prefix: strings.TrimSuffix(prefix, "/"), known: make(map[string]bool)}
	if dir == "" {
		return im, nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		log.Printf("content: static dir %s missing, images fall back to placeholder", dir)
		return im, nil
	}
	return im, im.index(os.DirFS(dir))
}

func (im *Images) index(fsys fs.FS) error {
	matches, err := doublestar.Glob(fsys, imagePattern)
	if err != nil {
		return fmt.Errorf("indexing images: %w", err)
	}
	for _, m := range matches {
		im.known[im.prefix+"/"+m] = true
	}
	return nil
}

// Len returns the number of indexed images.
func (im *Images) Len() int { return len(im.known) }

// Resolve returns ref when it names an indexed image or an absolute URL,
// and the placeholder otherwise.
func (im *Images) Resolve(ref string) string {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	clean := path.Clean("/" + ref)
	if im.known[clean] {
		return clean
	}
	if ref != "" {
		log.Printf("content: image %s not found, using placeholder", ref)
	}
	return PlaceholderImage
}

// Apply rewrites every image reference in c through Resolve.
func (im *Images) Apply(c *Content) {
	c.Portrait = im.Resolve(c.Portrait)
	for i := range c.Projects {
		c.Projects[i].Image = im.Resolve(c.Projects[i].Image)
	}
	for i := range c.Experience {
		c.Experience[i].Logo = im.Resolve(c.Experience[i].Logo)
	}
}
