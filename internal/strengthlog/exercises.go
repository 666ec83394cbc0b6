package strengthlog

import (
	"context"
	"log/slog"
	"net/url"
	"sort"
	"strconv"

	go_json "github.com/goccy/go-json"

	"github.com/claude/strengthlog-mcp/internal/models"
)

// libraryPageSize is used for the one-shot exercise library fetch; a single
// page covers the library in practice.
const libraryPageSize = 1000

// exerciseNames resolves exercise ids to display names. The cache is
// append-only for the life of the client — entries are added from the library
// and from per-id lookups, never invalidated.
type exerciseNames struct {
	fs   *firestoreClient
	byID map[string]string
	log  *slog.Logger
}

func newExerciseNames(fs *firestoreClient, log *slog.Logger) *exerciseNames {
	return &exerciseNames{
		fs:   fs,
		byID: make(map[string]string),
		log:  log,
	}
}

// NameOrID returns the cached name for an id, or the raw id when unresolved.
func (n *exerciseNames) NameOrID(id string) string {
	if name, ok := n.byID[id]; ok {
		return name
	}
	return id
}

// EnsureLoaded populates the cache from the user's exercise library when it
// is still empty.
func (n *exerciseNames) EnsureLoaded(ctx context.Context, userID string) error {
	if len(n.byID) > 0 {
		return nil
	}
	_, err := n.loadLibrary(ctx, userID)
	return err
}

// loadLibrary fetches and parses the full exercise library, caching every
// resolved name, and returns the parsed exercises.
func (n *exerciseNames) loadLibrary(ctx context.Context, userID string) ([]models.Exercise, error) {
	params := url.Values{}
	params.Set("pageSize", strconv.Itoa(libraryPageSize))

	body, err := n.fs.get(ctx, "25users/"+userID+"/exercises", params)
	if err != nil {
		return nil, err
	}

	var page wireCollection
	if err := go_json.Unmarshal(body, &page); err != nil {
		return nil, &APIError{StatusCode: 200, Body: "malformed exercise listing: " + err.Error()}
	}

	exercises := make([]models.Exercise, 0, len(page.Documents))
	for i := range page.Documents {
		ex, ok := parseExercise(&page.Documents[i])
		if !ok {
			continue
		}
		exercises = append(exercises, ex)
		n.byID[ex.ID] = ex.Name
	}
	return exercises, nil
}

// ResolveMissing looks up every id not yet cached with a direct document
// fetch. A failure for one id is swallowed — that id stays unresolved and
// renders as itself — so a single dangling reference cannot abort a whole
// workout or program fetch.
func (n *exerciseNames) ResolveMissing(ctx context.Context, ids map[string]struct{}) {
	for id := range ids {
		if _, ok := n.byID[id]; ok {
			continue
		}
		doc, err := n.fs.FetchDocument(ctx, "exercises/"+id, nil)
		if err != nil {
			n.log.Debug("exercise lookup failed", "id", id, "error", err)
			continue
		}
		fields := decodeDocument(doc)
		if name := globalExerciseName(fields); name != "" {
			n.byID[id] = name
		}
	}
}

// globalExerciseName applies the lookup priority for documents in the global
// exercises collection: loc.en, loc.sv, name-map.en, name-map.sv, flat name.
func globalExerciseName(fields map[string]Value) string {
	loc := fields["loc"]
	if name := loc.Field("en").AsString(); name != "" {
		return name
	}
	if name := loc.Field("sv").AsString(); name != "" {
		return name
	}
	nameField := fields["name"]
	if name := nameField.Field("en").AsString(); name != "" {
		return name
	}
	if name := nameField.Field("sv").AsString(); name != "" {
		return name
	}
	return nameField.AsString()
}

// parseExercise builds an Exercise from a library document. Resolution order:
// loc map (en, sv, then any present language), name map (same order), flat
// name string, and finally the document id.
func parseExercise(doc *wireDocument) (models.Exercise, bool) {
	if doc.Name == "" {
		return models.Exercise{}, false
	}
	fields := decodeDocument(doc)
	id := doc.ID()

	name := localizedMapName(fields["loc"])
	if name == "" {
		name = localizedMapName(fields["name"])
	}
	if name == "" {
		name = fields["name"].AsString()
	}
	if name == "" {
		name = id
	}

	var translations map[string]string
	if loc := fields["loc"]; loc.Kind == KindMap {
		translations = make(map[string]string, len(loc.Map))
		for lang, v := range loc.Map {
			if s := v.AsString(); s != "" {
				translations[lang] = s
			}
		}
	}

	return models.Exercise{ID: id, Name: name, Translations: translations}, true
}

// localizedMapName picks en, then sv, then any present language from a
// localized name map. The any-language fallback walks keys in sorted order so
// resolution stays deterministic.
func localizedMapName(v Value) string {
	if v.Kind != KindMap {
		return ""
	}
	if name := v.Field("en").AsString(); name != "" {
		return name
	}
	if name := v.Field("sv").AsString(); name != "" {
		return name
	}
	langs := make([]string, 0, len(v.Map))
	for lang := range v.Map {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	for _, lang := range langs {
		if name := v.Map[lang].AsString(); name != "" {
			return name
		}
	}
	return ""
}
