package update

import (
	"sync"

	"github.com/sandeepkv93/timebox/internal/views"
)

// markdownCache keeps the last rendered notes; glamour is too slow to run
// on every frame.
type markdownCache struct {
	mu     sync.Mutex
	source string
	style  string
	width  int
	out    string
}

func (c *markdownCache) render(source string, t views.Theme, width int) string {
	if c == nil {
		return views.RenderMarkdown(source, t, width)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.out != "" && c.source == source && c.style == t.GlamourStyle() && c.width == width {
		return c.out
	}
	c.source, c.style, c.width = source, t.GlamourStyle(), width
	c.out = views.RenderMarkdown(source, t, width)
	return c.out
}
