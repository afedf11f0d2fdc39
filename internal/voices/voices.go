// Package voices holds the static Kokoro voice catalog.
package voices

// Default is the voice used when a request does not name one.
const Default = "af_heart"

// Group is one accent/gender bucket of the catalog.
type Group struct {
	Name   string
	Voices []string
}

// The catalog mirrors the Kokoro-82M voice pack and never changes at
// runtime.
var groups = []Group{
	{
		Name: "American Female",
		Voices: []string{
			"af_heart", "af_alloy", "af_aoede", "af_bella",
			"af_jessica", "af_kore", "af_nicole", "af_nova",
			"af_river", "af_sarah", "af_sky",
		},
	},
	{
		Name: "American Male",
		Voices: []string{
			"am_adam", "am_echo", "am_eric", "am_fenrir",
			"am_liam", "am_michael", "am_onyx", "am_puck", "am_santa",
		},
	},
	{
		Name:   "British Female",
		Voices: []string{"bf_alice", "bf_emma", "bf_isabella", "bf_lily"},
	},
	{
		Name:   "British Male",
		Voices: []string{"bm_daniel", "bm_fable", "bm_george", "bm_lewis"},
	},
}

// Catalog returns the fixed catalog grouped by accent and gender.
func Catalog() []Group {
	out := make([]Group, len(groups))
	for i, g := range groups {
		out[i] = Group{Name: g.Name, Voices: append([]string(nil), g.Voices...)}
	}
	return out
}

// Grouped returns the catalog as display names keyed by group, with the
// default voice annotated. This is the structure the list_voices tool
// returns.
func Grouped() map[string][]string {
	out := make(map[string][]string, len(groups))
	for _, g := range groups {
		names := make([]string, len(g.Voices))
		for i, v := range g.Voices {
			if v == Default {
				names[i] = v + " (default)"
			} else {
				names[i] = v
			}
		}
		out[g.Name] = names
	}
	return out
}

// Exists reports whether name is a known voice.
func Exists(name string) bool {
	for _, g := range groups {
		for _, v := range g.Voices {
			if v == name {
				return true
			}
		}
	}
	return false
}
