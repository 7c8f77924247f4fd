package knowledge

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/goccy/go-yaml"

	"github.com/wolfman30/elitecuts-assistant/pkg/logging"
)

// Dataset is the on-disk form of the reference records.
type Dataset struct {
	Services        []Service        `json:"services" yaml:"services"`
	Barbers         []Barber         `json:"barbers" yaml:"barbers"`
	FAQs            []FAQ            `json:"faqs" yaml:"faqs"`
	Promotions      []Promotion      `json:"promotions" yaml:"promotions"`
	Hours           []WorkingHours   `json:"working_hours" yaml:"working_hours"`
	Styles          []StyleCategory  `json:"style_categories" yaml:"style_categories"`
	Specializations []Specialization `json:"barber_specializations" yaml:"barber_specializations"`
	Locations       []Location       `json:"locations" yaml:"locations"`
}

// ParseDataset decodes a YAML dataset.
func ParseDataset(data []byte) (Dataset, error) {
	var ds Dataset
	if err := yaml.NewDecoder(bytes.NewReader(data)).Decode(&ds); err != nil {
		return Dataset{}, fmt.Errorf("knowledge: decode dataset: %w", err)
	}
	return ds, nil
}

// FileSource serves a YAML dataset from disk. Refresh re-reads the file; a
// file that fails to parse leaves the previous dataset in place.
type FileSource struct {
	path string

	mu     sync.RWMutex
	static StaticSource
}

// NewFileSource reads path once and returns a source over its contents.
func NewFileSource(path string) (*FileSource, error) {
	f := &FileSource{path: path}
	if err := f.Refresh(); err != nil {
		return nil, err
	}
	return f, nil
}

// Path returns the dataset file location.
func (f *FileSource) Path() string { return f.path }

// Refresh re-reads the dataset file.
func (f *FileSource) Refresh() error {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		return fmt.Errorf("knowledge: read dataset %s: %w", f.path, err)
	}
	ds, err := ParseDataset(raw)
	if err != nil {
		return err
	}
	f.mu.Lock()
	f.static = StaticSource{Data: ds}
	f.mu.Unlock()
	return nil
}

func (f *FileSource) current() *StaticSource {
	f.mu.RLock()
	defer f.mu.RUnlock()
	s := f.static
	return &s
}

func (f *FileSource) FetchServices(ctx context.Context) ([]Service, error) {
	return f.current().FetchServices(ctx)
}

func (f *FileSource) FetchBarbers(ctx context.Context) ([]Barber, error) {
	return f.current().FetchBarbers(ctx)
}

func (f *FileSource) FetchFAQs(ctx context.Context) ([]FAQ, error) {
	return f.current().FetchFAQs(ctx)
}

func (f *FileSource) FetchPromotions(ctx context.Context) ([]Promotion, error) {
	return f.current().FetchPromotions(ctx)
}

func (f *FileSource) FetchWorkingHours(ctx context.Context) ([]WorkingHours, error) {
	return f.current().FetchWorkingHours(ctx)
}

func (f *FileSource) FetchStyleCategories(ctx context.Context) ([]StyleCategory, error) {
	return f.current().FetchStyleCategories(ctx)
}

func (f *FileSource) FetchBarberSpecializations(ctx context.Context) ([]Specialization, error) {
	return f.current().FetchBarberSpecializations(ctx)
}

func (f *FileSource) FetchLocations(ctx context.Context) ([]Location, error) {
	return f.current().FetchLocations(ctx)
}

// Watch refreshes the file source whenever its file is written or replaced
// and then calls onChange. It blocks until ctx is done.
func Watch(ctx context.Context, src *FileSource, logger *logging.Logger, onChange func(context.Context)) error {
	if logger == nil {
		logger = logging.Default()
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("knowledge: create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory so editors that replace the file are still seen.
	if err := watcher.Add(filepath.Dir(src.Path())); err != nil {
		return fmt.Errorf("knowledge: watch %s: %w", src.Path(), err)
	}
	target := filepath.Clean(src.Path())

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if err := src.Refresh(); err != nil {
				logger.Warn("knowledge dataset reload failed", "path", target, "error", err)
				continue
			}
			logger.Info("knowledge dataset changed", "path", target)
			if onChange != nil {
				onChange(ctx)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("knowledge watcher error", "error", err)
		}
	}
}
