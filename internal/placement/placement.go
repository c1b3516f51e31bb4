// Package placement assigns agents to spawn points of a room plan. The
// resulting placements feed the preview as highlighted point markers.
package placement

import (
	"math"
	"sort"
	"strconv"

	"github.com/avollmer/sceneslice/internal/models"
)

// AgentPref is the placement-relevant subset of an agent definition.
type AgentPref struct {
	ID                 string
	PreferredZoneIDs   []string
	PreferredSpawnTags []string
}

// Placement is the resolved spawn assignment for one agent.
type Placement struct {
	AgentID      string      `json:"agent_id"`
	Position     models.Vec3 `json:"position"`
	Forward      models.Vec3 `json:"forward"`
	SpawnPointID string      `json:"spawn_point_id,omitempty"`
	ZoneID       string      `json:"zone_id,omitempty"`
	Tags         []string    `json:"tags,omitempty"`
}

// spawnPoint is the parsed shape of one room-plan spawn point.
type spawnPoint struct {
	id       string
	zoneID   string
	tags     []string
	position models.Vec3
	forward  models.Vec3
}

const (
	zoneMatchScore  = 10.0
	tagMatchScore   = 3.0
	entranceBias    = 0.5
	distancePenalty = 0.05
	circleRadius    = 2.0
)

// AssignSpawnPoints places every agent on a spawn point of the room plan.
// Greedy strategy: agents with more preferences choose first; each takes
// the unused spawn point with the best score (preferred zone, shared
// tags, a slight entrance bias for agents without preferences, and a
// small penalty for distance from the origin). A room plan without spawn
// points falls back to a circle of agents around the origin facing +Z.
func AssignSpawnPoints(roomPlan *models.Value, agents []AgentPref) []Placement {
	points := parseSpawnPoints(roomPlan)

	if len(points) == 0 {
		return circlePlacements(agents)
	}

	// More specific agents place first; ties keep input order.
	order := make([]int, len(agents))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return prefScore(agents[order[a]]) > prefScore(agents[order[b]])
	})

	byAgent := make(map[string]Placement, len(agents))
	unused := append([]spawnPoint(nil), points...)

	for _, idx := range order {
		agent := agents[idx]
		zones := stringSet(agent.PreferredZoneIDs)
		tags := stringSet(agent.PreferredSpawnTags)

		bestIdx := -1
		bestScore := math.Inf(-1)
		for i, sp := range unused {
			score := 0.0
			if sp.zoneID != "" && zones[sp.zoneID] {
				score += zoneMatchScore
			}
			for _, t := range sp.tags {
				if tags[t] {
					score += tagMatchScore
				}
			}
			if len(zones) == 0 && len(tags) == 0 && sp.zoneID == "entrance" {
				score += entranceBias
			}
			score -= distancePenalty * length(sp.position)
			if score > bestScore {
				bestScore = score
				bestIdx = i
			}
		}
		if bestIdx < 0 {
			bestIdx = 0
		}
		sp := unused[bestIdx]
		unused = append(unused[:bestIdx], unused[bestIdx+1:]...)

		byAgent[agent.ID] = Placement{
			AgentID:      agent.ID,
			Position:     sp.position,
			Forward:      sp.forward,
			SpawnPointID: sp.id,
			ZoneID:       sp.zoneID,
			Tags:         sp.tags,
		}

		if len(unused) == 0 {
			break
		}
	}

	// Report in agent input order, skipping agents left without a point.
	out := make([]Placement, 0, len(byAgent))
	for _, a := range agents {
		if pl, ok := byAgent[a.ID]; ok {
			out = append(out, pl)
		}
	}
	return out
}

// Markers converts placements into highlighted preview markers.
func Markers(placements []Placement) []models.Marker {
	markers := make([]models.Marker, 0, len(placements))
	for _, pl := range placements {
		markers = append(markers, models.Marker{
			ID:        pl.AgentID,
			Position:  pl.Position,
			Highlight: true,
		})
	}
	return markers
}

// ParseAgents reads the placement-relevant agent fields from a parsed
// agents document shaped as {"agents": [...]}. String-valued preference
// fields are accepted as one-element lists, matching what editing tools
// emit.
func ParseAgents(doc *models.Value) []AgentPref {
	agentsNode, ok := doc.GetFold("agents")
	if !ok || agentsNode.Kind != models.Array {
		return nil
	}
	prefs := make([]AgentPref, 0, len(agentsNode.Items))
	for i, item := range agentsNode.Items {
		if item.Kind != models.Object {
			continue
		}
		id := stringField(item, "id")
		if id == "" {
			id = "agent_" + strconv.Itoa(i+1)
		}
		prefs = append(prefs, AgentPref{
			ID:                 id,
			PreferredZoneIDs:   stringList(item, "preferred_zone_ids"),
			PreferredSpawnTags: stringList(item, "preferred_spawn_tags"),
		})
	}
	return prefs
}

func circlePlacements(agents []AgentPref) []Placement {
	n := len(agents)
	if n == 0 {
		return nil
	}
	out := make([]Placement, 0, n)
	for i, a := range agents {
		angle := 2 * math.Pi * float64(i) / float64(n)
		out = append(out, Placement{
			AgentID: a.ID,
			Position: models.Vec3{
				X: round3(circleRadius * math.Cos(angle)),
				Y: 0,
				Z: round3(circleRadius * math.Sin(angle)),
			},
			Forward: models.Vec3{X: 0, Y: 0, Z: 1},
		})
	}
	return out
}

func parseSpawnPoints(roomPlan *models.Value) []spawnPoint {
	node, ok := roomPlan.GetFold("spawn_points")
	if !ok || node.Kind != models.Array {
		return nil
	}
	points := make([]spawnPoint, 0, len(node.Items))
	for _, item := range node.Items {
		if item.Kind != models.Object {
			continue
		}
		sp := spawnPoint{
			id:       stringField(item, "id"),
			zoneID:   stringField(item, "zone_id"),
			tags:     stringList(item, "tags"),
			position: vec3Field(item, "position", models.Vec3{}),
			forward:  vec3Field(item, "forward", models.Vec3{Z: 1}),
		}
		points = append(points, sp)
	}
	return points
}

func prefScore(a AgentPref) int {
	return len(a.PreferredZoneIDs) + len(a.PreferredSpawnTags)
}

func stringSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, s := range items {
		if s != "" {
			set[s] = true
		}
	}
	return set
}

func stringField(obj *models.Value, key string) string {
	if v, ok := obj.GetFold(key); ok && v.Kind == models.String {
		return v.Str
	}
	return ""
}

func stringList(obj *models.Value, key string) []string {
	v, ok := obj.GetFold(key)
	if !ok {
		return nil
	}
	switch v.Kind {
	case models.String:
		if v.Str == "" {
			return nil
		}
		return []string{v.Str}
	case models.Array:
		out := make([]string, 0, len(v.Items))
		for _, item := range v.Items {
			if item.Kind == models.String && item.Str != "" {
				out = append(out, item.Str)
			}
		}
		return out
	}
	return nil
}

func vec3Field(obj *models.Value, key string, fallback models.Vec3) models.Vec3 {
	v, ok := obj.GetFold(key)
	if !ok || v.Kind != models.Object {
		return fallback
	}
	var out models.Vec3
	if x, ok := v.GetFold("x"); ok && x.Kind == models.Number {
		out.X = x.Num
	}
	if y, ok := v.GetFold("y"); ok && y.Kind == models.Number {
		out.Y = y.Num
	}
	if z, ok := v.GetFold("z"); ok && z.Kind == models.Number {
		out.Z = z.Num
	}
	return out
}

func length(v models.Vec3) float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
