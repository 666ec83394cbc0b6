package strengthlog

import (
	"context"
	"sort"
	"strconv"

	"github.com/claude/strengthlog-mcp/internal/models"
)

// programFieldMask limits program documents to the fields the list and
// detail views actually read.
var programFieldMask = []string{"name", "loc", "workoutsOrder", "description"}

// programWorkoutFieldMask limits program workout sub-documents similarly.
var programWorkoutFieldMask = []string{"name", "loc", "sets", "week", "weekNumber", "title"}

// GetPrograms lists the user's programs: their own documents plus any
// followed program that has to be fetched from the global collection.
// Workouts are left nil — only GetProgram populates them.
func (c *Client) GetPrograms(ctx context.Context) ([]models.Program, error) {
	userID := c.session.UserID()

	// Followed ids live on the profile document. A profile that cannot be
	// read just means no followed programs.
	followedIDs := make(map[string]struct{})
	if profileDoc, err := c.fs.FetchDocument(ctx, "25users/"+userID, nil); err == nil {
		profile := decodeDocument(profileDoc)
		if following := profile["followingPrograms"]; following.Kind == KindMap {
			for pid, entry := range following.Map {
				// Followed unless the per-follow flag is explicitly false.
				if entry.Kind == KindMap {
					if flag := entry.Field("following"); flag.Kind == KindBool && !flag.Bool {
						continue
					}
				}
				followedIDs[pid] = struct{}{}
			}
		}
	} else {
		c.log.Debug("profile fetch failed", "error", err)
	}

	userDocs, err := c.fs.FetchCollection(ctx, "25users/"+userID+"/programs", programFieldMask)
	if err != nil {
		return nil, err
	}

	programs := make([]models.Program, 0, len(userDocs))
	found := make(map[string]struct{}, len(userDocs))

	for i := range userDocs {
		doc := &userDocs[i]
		if doc.Name == "" {
			continue
		}
		id := doc.ID()
		data := decodeDocument(doc)

		source := models.SourceUserPrograms
		if _, ok := followedIDs[id]; ok {
			source = models.SourceFollowing
		}
		programs = append(programs, models.Program{
			ID:            id,
			Name:          localizedName(data, "Unnamed Program"),
			Description:   data["description"].AsString(),
			WorkoutsOrder: workoutsOrder(data),
			Source:        source,
		})
		found[id] = struct{}{}
	}

	// Followed programs the user does not own come from the global
	// collection; one bad follow entry is skipped, not fatal.
	for pid := range followedIDs {
		if _, ok := found[pid]; ok {
			continue
		}
		doc, err := c.fs.FetchDocument(ctx, "programs/"+pid, programFieldMask)
		if err != nil {
			c.log.Debug("followed program fetch failed", "id", pid, "error", err)
			continue
		}
		data := decodeDocument(doc)
		programs = append(programs, models.Program{
			ID:            pid,
			Name:          localizedName(data, "Unnamed Program"),
			Description:   data["description"].AsString(),
			WorkoutsOrder: workoutsOrder(data),
			Source:        models.SourceGlobal,
		})
	}

	sort.SliceStable(programs, func(i, j int) bool {
		ri, rj := programSourceRank(programs[i].Source), programSourceRank(programs[j].Source)
		if ri != rj {
			return ri < rj
		}
		return programs[i].Name < programs[j].Name
	})
	return programs, nil
}

// programSourceRank orders followed and global programs ahead of the user's
// own.
func programSourceRank(source string) int {
	if source == models.SourceFollowing || source == models.SourceGlobal {
		return 0
	}
	return 1
}

// GetProgram fetches one program in full: every workout sub-document, its
// prescribed sets, and denormalized exercise names.
func (c *Client) GetProgram(ctx context.Context, programID, source string) (*models.Program, error) {
	userID := c.session.UserID()

	if err := c.names.EnsureLoaded(ctx, userID); err != nil {
		return nil, err
	}

	basePath := "programs/" + programID
	if source == models.SourceUserPrograms || source == models.SourceFollowing {
		basePath = "25users/" + userID + "/programs/" + programID
	}

	programDoc, err := c.fs.FetchDocument(ctx, basePath, nil)
	if err != nil {
		return nil, err
	}
	programData := decodeDocument(programDoc)

	order := workoutsOrder(programData)
	exerciseIDs := make(map[string]struct{})
	workouts := make([]models.ProgramWorkout, 0, len(order))

	for _, wid := range order {
		wdoc, err := c.fs.FetchDocument(ctx, basePath+"/workouts/"+wid, programWorkoutFieldMask)
		if err != nil {
			// Partial program detail beats total failure: drop the workout.
			c.log.Debug("program workout fetch failed", "program", programID, "workout", wid, "error", err)
			continue
		}
		wdata := decodeDocument(wdoc)

		sets := parseProgramSets(wdata["sets"])
		for _, s := range sets {
			exerciseIDs[s.ExerciseID] = struct{}{}
		}

		week := 0
		for _, f := range []string{"week", "weekNumber"} {
			if v := wdata[f]; v.Kind == KindInt {
				week = int(v.Int)
				break
			}
		}

		workouts = append(workouts, models.ProgramWorkout{
			ID:   wid,
			Name: localizedName(wdata, "Unnamed Workout"),
			Week: week,
			Sets: sets,
		})
	}

	// Names are resolved in one batch after every workout is in, then
	// backfilled into all sets.
	c.names.ResolveMissing(ctx, exerciseIDs)
	for wi := range workouts {
		for si := range workouts[wi].Sets {
			s := &workouts[wi].Sets[si]
			s.ExerciseName = c.names.NameOrID(s.ExerciseID)
		}
	}

	return &models.Program{
		ID:            programID,
		Name:          localizedName(programData, "Unnamed Program"),
		Description:   programData["description"].AsString(),
		WorkoutsOrder: order,
		Source:        source,
		Workouts:      workouts,
	}, nil
}

// workoutsOrder reads the ordered workout id list, which the wire encodes
// either as a sparse index→id map or as a plain list. Map keys sort
// numerically when they are digit strings, lexically otherwise.
func workoutsOrder(data map[string]Value) []string {
	wo := data["workoutsOrder"]
	switch wo.Kind {
	case KindMap:
		keys := make([]string, 0, len(wo.Map))
		for k := range wo.Map {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool {
			if isDigits(keys[i]) && isDigits(keys[j]) {
				ni, _ := strconv.Atoi(keys[i])
				nj, _ := strconv.Atoi(keys[j])
				return ni < nj
			}
			return keys[i] < keys[j]
		})
		order := make([]string, 0, len(keys))
		for _, k := range keys {
			order = append(order, wo.Map[k].AsString())
		}
		return order
	case KindList:
		order := make([]string, 0, len(wo.List))
		for _, v := range wo.List {
			order = append(order, v.AsString())
		}
		return order
	default:
		return nil
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// parseProgramSets unifies the two set-collection encodings — a keyed map
// with explicit order fields, and a plain list where position is the order —
// into one ordered slice.
func parseProgramSets(sets Value) []models.ProgramSet {
	type ordered struct {
		order int
		set   Value
	}
	var entries []ordered

	switch sets.Kind {
	case KindMap:
		for _, v := range sets.Map {
			if v.Kind != KindMap {
				continue
			}
			entries = append(entries, ordered{order: int(v.Field("order").AsInt()), set: v})
		}
	case KindList:
		for i, v := range sets.List {
			if v.Kind != KindMap {
				continue
			}
			order := i
			if o := v.Field("order"); o.Kind == KindInt {
				order = int(o.Int)
			}
			entries = append(entries, ordered{order: order, set: v})
		}
	default:
		return nil
	}

	sort.SliceStable(entries, func(i, j int) bool { return entries[i].order < entries[j].order })

	result := make([]models.ProgramSet, 0, len(entries))
	for _, e := range entries {
		exerciseID := e.set.Field("exercise").AsString()
		if exerciseID == "" {
			continue
		}

		ps := models.ProgramSet{
			ExerciseID: exerciseID,
			Order:      e.order,
			IsWarmup:   e.set.Field("warmup").AsBool(),
		}

		// Program sets prescribe reps/weight either nested under variables
		// or flat; program weights are plain numbers, not micro-units.
		if variables := e.set.Field("variables"); variables.Kind == KindMap {
			ps.Reps = int(variables.Field("reps").AsInt())
			if w, ok := variables.Field("weight").AsFloat(); ok {
				ps.Weight = &w
			}
		} else {
			ps.Reps = int(e.set.Field("reps").AsInt())
		}

		result = append(result, ps)
	}
	return result
}

// localizedName resolves a display name for program and program-workout
// documents: the loc map first (preferred languages, then any), then name
// and title as either flat strings or localized maps.
func localizedName(data map[string]Value, fallback string) string {
	if name := anyLocalized(data["loc"]); name != "" {
		return name
	}
	for _, field := range []string{"name", "title"} {
		v := data[field]
		if s := v.AsString(); s != "" {
			return s
		}
		if name := anyLocalized(v); name != "" {
			return name
		}
	}
	return fallback
}

// anyLocalized picks from a localized map by workout language preference,
// then any non-empty entry in sorted key order.
func anyLocalized(v Value) string {
	if v.Kind != KindMap {
		return ""
	}
	for _, lang := range workoutNameLangs {
		if name := v.Field(lang).AsString(); name != "" {
			return name
		}
	}
	keys := make([]string, 0, len(v.Map))
	for k := range v.Map {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if name := v.Map[k].AsString(); name != "" {
			return name
		}
	}
	return ""
}
