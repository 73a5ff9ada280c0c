package server

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"path/filepath"
	"sync"
	"time"

	"github.com/apex/log"
	"github.com/fsnotify/fsnotify"
)

//go:embed templates/*.html
var templateFS embed.FS

// reloadDebounce absorbs the burst of events editors fire per save.
const reloadDebounce = 100 * time.Millisecond

// templateSet renders pages from the embedded templates, or from an
// on-disk directory with hot reload when one is configured.
type templateSet struct {
	mu   sync.RWMutex
	tmpl *template.Template
	dir  string
}

// newTemplateSet parses the templates compiled into the binary.
func newTemplateSet() (*templateSet, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse embedded templates: %w", err)
	}
	return &templateSet{tmpl: tmpl}, nil
}

// newDevTemplateSet parses templates from dir instead of the binary.
func newDevTemplateSet(dir string) (*templateSet, error) {
	t := &templateSet{dir: dir}
	if err := t.reload(); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *templateSet) reload() error {
	tmpl, err := template.ParseGlob(filepath.Join(t.dir, "*.html"))
	if err != nil {
		return fmt.Errorf("failed to parse templates in %s: %w", t.dir, err)
	}
	t.mu.Lock()
	t.tmpl = tmpl
	t.mu.Unlock()
	return nil
}

func (t *templateSet) render(w io.Writer, name string, data interface{}) error {
	t.mu.RLock()
	tmpl := t.tmpl
	t.mu.RUnlock()
	return tmpl.ExecuteTemplate(w, name, data)
}

// watch re-parses the on-disk templates whenever one changes, until ctx is
// cancelled. Only valid on a dev template set.
func (t *templateSet) watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create template watcher: %w", err)
	}
	if err := watcher.Add(t.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", t.dir, err)
	}
	log.WithField("dir", t.dir).Info("watching templates for changes")

	go func() {
		defer watcher.Close()

		var (
			pendingMu sync.Mutex
			pending   *time.Timer
		)
		schedule := func() {
			pendingMu.Lock()
			defer pendingMu.Unlock()
			if pending != nil {
				pending.Stop()
			}
			pending = time.AfterFunc(reloadDebounce, func() {
				if err := t.reload(); err != nil {
					log.WithError(err).Error("template reload failed")
					return
				}
				log.Info("templates reloaded")
			})
		}

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Ext(event.Name) != ".html" {
					continue
				}
				schedule()
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.WithError(err).Warn("template watcher error")
			}
		}
	}()

	return nil
}
