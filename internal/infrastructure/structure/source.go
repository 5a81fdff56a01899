package structure

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/bnema/panectl/internal/application/port"
	"github.com/bnema/panectl/internal/domain/entity"
	"github.com/bnema/panectl/internal/domain/repository"
	"github.com/bnema/panectl/internal/logging"
)

// Source serves the structure tree of one file. Live lists follow the file
// as it changes once Watch is running.
type Source struct {
	path string
	docs repository.DocumentRepository

	mu      sync.RWMutex
	def     *Definition
	version uint64
	subs    map[uint64]chan struct{}
	nextSub uint64
}

// NewSource creates a structure source for path. docs backs documentList
// children and may be nil, in which case every document id resolves to a
// new document of the list's type.
func NewSource(path string, docs repository.DocumentRepository) *Source {
	return &Source{
		path: path,
		docs: docs,
		subs: make(map[uint64]chan struct{}),
	}
}

// NewSourceFromDefinition serves an already decoded definition.
func NewSourceFromDefinition(def *Definition, docs repository.DocumentRepository) *Source {
	s := NewSource("", docs)
	s.def = def
	s.version = 1
	return s
}

// Load reads the structure file, replacing the current definition.
func (s *Source) Load(ctx context.Context) error {
	def, err := LoadFile(s.path)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.def = def
	s.version++
	version := s.version
	subs := make([]chan struct{}, 0, len(s.subs))
	for _, ch := range s.subs {
		subs = append(subs, ch)
	}
	s.mu.Unlock()

	logging.FromContext(ctx).Debug().
		Str("file", s.path).
		Uint64("version", version).
		Msg("structure loaded")

	for _, ch := range subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
	return nil
}

// Root implements port.StructureSource.
func (s *Source) Root(ctx context.Context) (*entity.Node, error) {
	s.mu.RLock()
	def := s.def
	s.mu.RUnlock()

	if def == nil {
		if s.path == "" {
			return nil, errors.New("no structure loaded")
		}
		if err := s.Load(ctx); err != nil {
			return nil, err
		}
		s.mu.RLock()
		def = s.def
		s.mu.RUnlock()
	}
	return s.build(&def.Root, nil), nil
}

// TemplateType implements port.TemplateLookup.
func (s *Source) TemplateType(id string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.def == nil {
		return "", false
	}
	return s.def.TemplateType(id)
}

// Watch reloads the structure whenever the file changes, until ctx is done.
// The directory is watched so editors that replace the file are followed.
func (s *Source) Watch(ctx context.Context) error {
	if s.path == "" {
		return errors.New("no structure file to watch")
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create structure watcher: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	log := logging.FromContext(ctx)
	target := filepath.Clean(s.path)

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				log.Debug().Str("op", ev.Op.String()).Str("file", ev.Name).Msg("structure file changed")
				if err := s.Load(ctx); err != nil {
					log.Warn().Err(err).Msg("failed to reload structure, keeping previous version")
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warn().Err(err).Msg("structure watcher error")
			}
		}
	}()
	return nil
}

// subscribe returns a channel signalled after every reload.
func (s *Source) subscribe() (<-chan struct{}, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSub++
	id := s.nextSub
	ch := make(chan struct{}, 1)
	s.subs[id] = ch
	return ch, func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// lookup finds the current definition at ids.
func (s *Source) lookup(ids []string) (*NodeDef, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.def == nil {
		return nil, false
	}
	return s.def.find(ids)
}

// build turns a definition into a node. defPath is the id path from the
// root definition to def, used by live lists to look up fresh versions.
func (s *Source) build(def *NodeDef, defPath []string) *entity.Node {
	node := &entity.Node{
		ID:         def.ID,
		Type:       def.Type,
		Title:      def.Title,
		SchemaType: def.SchemaType,
	}

	switch def.Type {
	case entity.NodeTypeDocumentList:
		node.Child = s.documentChild(def)
		if len(def.Intents) > 0 {
			node.CanHandleIntent = intentHandler(def)
		}
	case entity.NodeTypeDocument:
		docID := def.DocumentID
		if docID == "" {
			docID = def.ID
		}
		node.Options = &entity.DocumentOptions{ID: docID, Type: def.SchemaType}
	}

	if len(def.Items) > 0 {
		if def.Live {
			node.Child = s.liveChild(defPath)
		} else {
			node.Child = s.staticChild(def, defPath)
		}
	}
	return node
}

func (s *Source) staticChild(def *NodeDef, defPath []string) entity.ChildResolver {
	items := slices.Clone(def.Items)
	return func(_ context.Context, itemID string, _ entity.ResolutionContext) entity.ChildResult {
		for i := range items {
			if items[i].ID == itemID {
				return entity.Value(s.build(&items[i], childPath(defPath, itemID)))
			}
		}
		return entity.NoChild()
	}
}

// liveChild re-reads the list after every reload and emits the item again,
// or nil once it is gone.
func (s *Source) liveChild(defPath []string) entity.ChildResolver {
	return func(_ context.Context, itemID string, _ entity.ResolutionContext) entity.ChildResult {
		return entity.Stream(func(ctx context.Context, emit func(*entity.Node)) error {
			reloads, unsubscribe := s.subscribe()
			defer unsubscribe()

			current := func() *entity.Node {
				def, ok := s.lookup(childPath(defPath, itemID))
				if !ok {
					return nil
				}
				return s.build(def, childPath(defPath, itemID))
			}

			emit(current())
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-reloads:
					emit(current())
				}
			}
		})
	}
}

func (s *Source) documentChild(def *NodeDef) entity.ChildResolver {
	schemaType := def.SchemaType
	return func(_ context.Context, itemID string, _ entity.ResolutionContext) entity.ChildResult {
		if s.docs == nil {
			return entity.Value(documentNode(itemID, schemaType, ""))
		}
		return entity.Deferred(func(ctx context.Context) (*entity.Node, error) {
			doc, err := s.docs.Get(ctx, itemID)
			if errors.Is(err, entity.ErrDocumentNotFound) {
				// not stored yet: open it as a new document of the list's type
				return documentNode(itemID, schemaType, ""), nil
			}
			if err != nil {
				return nil, fmt.Errorf("load document %q: %w", itemID, err)
			}
			docType := doc.Type
			if docType == "" {
				docType = schemaType
			}
			return documentNode(doc.ID, docType, doc.Title), nil
		})
	}
}

func documentNode(id, docType, title string) *entity.Node {
	if title == "" {
		title = id
	}
	return &entity.Node{
		ID:         id,
		Type:       entity.NodeTypeDocument,
		Title:      title,
		SchemaType: docType,
		Options:    &entity.DocumentOptions{ID: id, Type: docType},
	}
}

func intentHandler(def *NodeDef) entity.IntentHandler {
	intents := slices.Clone(def.Intents)
	schemaType := def.SchemaType
	return func(intent string, params map[string]string, _ entity.IntentContext) bool {
		if !slices.Contains(intents, intent) {
			return false
		}
		t := params["type"]
		return t == "" || t == schemaType
	}
}

func childPath(parent []string, id string) []string {
	out := make([]string, len(parent), len(parent)+1)
	copy(out, parent)
	return append(out, id)
}

var (
	_ port.StructureSource = (*Source)(nil)
	_ port.TemplateLookup  = (*Source)(nil)
)
