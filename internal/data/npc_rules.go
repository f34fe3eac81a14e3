package data

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// NpcRuleTable holds the static NPC classification lists used by the combat
// reconstructor. All lookups are read-only after load.
type NpcRuleTable struct {
	riderAI       map[int32]struct{} // AI styles that never set a target (boss segments, mounts)
	untargetedIDs map[int32]struct{} // NPC types that fight without reporting a target
	bossParts     map[int32]struct{} // sub-objects whose damage counts toward a boss
}

// Default NPC type IDs.
const (
	NpcMartianSaucer       = 392
	NpcMartianSaucerTurret = 393
	NpcMartianSaucerCannon = 394
	NpcCultistArcherBlue   = 379
	NpcCultistArcherWhite  = 380
	NpcCultistDevote       = 438
	NpcCultistBoss         = 439

	AIRider        = 75
	AIMartianProbe = 80
)

// DefaultNpcRules returns the compiled-in table, used when no rules file is
// configured.
func DefaultNpcRules() *NpcRuleTable {
	return newNpcRuleTable(npcRulesFile{
		RiderAI:       []int32{AIRider, AIMartianProbe},
		UntargetedIDs: []int32{NpcCultistArcherBlue, NpcCultistArcherWhite, NpcCultistDevote, NpcCultistBoss},
		BossParts:     []int32{NpcMartianSaucer, NpcMartianSaucerTurret, NpcMartianSaucerCannon},
	})
}

// IsRiderAI reports whether an AI style belongs to NPCs that attack while
// leaving their target reference empty.
func (t *NpcRuleTable) IsRiderAI(aiStyle int32) bool {
	_, ok := t.riderAI[aiStyle]
	return ok
}

// IsUntargeted reports whether an NPC type fights without a target reference.
func (t *NpcRuleTable) IsUntargeted(npcType int32) bool {
	_, ok := t.untargetedIDs[npcType]
	return ok
}

// IsBossPart reports whether damage to this NPC type counts as boss damage.
func (t *NpcRuleTable) IsBossPart(npcType int32) bool {
	_, ok := t.bossParts[npcType]
	return ok
}

// Count returns the number of entries across all lists.
func (t *NpcRuleTable) Count() int {
	return len(t.riderAI) + len(t.untargetedIDs) + len(t.bossParts)
}

// --- YAML loading ---

type npcRulesFile struct {
	RiderAI       []int32 `yaml:"rider_ai"`
	UntargetedIDs []int32 `yaml:"untargeted_npcs"`
	BossParts     []int32 `yaml:"boss_parts"`
}

func toSet(ids []int32) map[int32]struct{} {
	m := make(map[int32]struct{}, len(ids))
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return m
}

func newNpcRuleTable(f npcRulesFile) *NpcRuleTable {
	return &NpcRuleTable{
		riderAI:       toSet(f.RiderAI),
		untargetedIDs: toSet(f.UntargetedIDs),
		bossParts:     toSet(f.BossParts),
	}
}

// LoadNpcRuleTable loads NPC rule lists from YAML. An empty path returns the
// defaults.
func LoadNpcRuleTable(path string) (*NpcRuleTable, error) {
	if path == "" {
		return DefaultNpcRules(), nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read npc rules: %w", err)
	}
	return ParseNpcRuleTable(raw)
}

// ParseNpcRuleTable parses NPC rule lists from YAML bytes.
func ParseNpcRuleTable(raw []byte) (*NpcRuleTable, error) {
	var f npcRulesFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse npc rules: %w", err)
	}
	return newNpcRuleTable(f), nil
}
