package actor

// Name material and behavioral archetypes. Lists are deliberately
// larger than a typical population's collision horizon; the directory
// still de-duplicates deterministically when materializing.

var firstNames = []string{
	"Alex", "Marco", "Elena", "Viktor", "Sofia", "Daniel", "Ivan", "Lena",
	"Tomas", "Ana", "Sergey", "Maria", "David", "Nina", "Pavel", "Julia",
	"Omar", "Layla", "Kenji", "Mei", "Lucas", "Camila", "Mateo", "Valentina",
	"Felix", "Greta", "Andrei", "Oksana", "Deniz", "Emre", "Linh", "Minh",
	"Piotr", "Agata", "Jonas", "Freja", "Rahul", "Priya", "Samuel", "Ruth",
}

var surnames = []string{
	"Novak", "Silva", "Petrov", "Kowalski", "Meyer", "Rossi", "Tanaka",
	"Kim", "Nguyen", "Garcia", "Fernandez", "Ivanov", "Schmidt", "Keller",
	"Costa", "Almeida", "Yilmaz", "Demir", "Popescu", "Ionescu", "Berg",
	"Lund", "Varga", "Horvat", "Moreau", "Dubois", "Okafor", "Mensah",
	"Haddad", "Nakamura", "Sato", "Lindqvist", "Olsen", "Marin", "Castro",
}

var handleAdjectives = []string{
	"Silent", "Rapid", "Golden", "Macro", "Quantum", "Stealth", "Liquid",
	"Orbital", "Prime", "Deep", "Nordic", "Solar", "Iron", "Vivid", "Lunar",
	"Crimson", "Static", "Turbo", "Zen", "Delta", "Alpine", "Neon",
}

var handleNouns = []string{
	"Wolf", "Falcon", "Trader", "Whale", "Raven", "Signal", "Nomad",
	"Pilot", "Oracle", "Drifter", "Hunter", "Baron", "Scout", "Viking",
	"Phantom", "Badger", "Comet", "Monk", "Sparrow", "Fox", "Sentinel",
}

// Suffix material for deterministic collision resolution.
var emojiSuffixes = []string{
	" \U0001F680", " \U0001F4C8", " ⚡", " \U0001F98A", " \U0001F316",
	" \U0001F311", " \U0001F527",
}

var titleSuffixes = []string{
	" | charts", " | macro", " | spot only", " | onchain", " | alerts",
}

var locales = []string{
	"en-US", "en-GB", "de-DE", "es-ES", "pt-BR", "ru-RU", "tr-TR", "vi-VN",
}

// archetype bounds a behavioral profile; the concrete values for one
// actor are drawn inside these ranges from the actor's own stream.
type archetype struct {
	name       string
	weight     float64
	speedLo    float64
	speedHi    float64
	punctLo    float64
	punctHi    float64
	emojiLo    float64
	emojiHi    float64
	emotionLo  float64
	emotionHi  float64
}

var archetypes = []archetype{
	{name: "analyst", weight: 0.18, speedLo: 0.95, speedHi: 1.25, punctLo: 0.7, punctHi: 1.0, emojiLo: 0.0, emojiHi: 0.25, emotionLo: 0.1, emotionHi: 0.35},
	{name: "promoter", weight: 0.14, speedLo: 1.1, speedHi: 1.5, punctLo: 0.1, punctHi: 0.45, emojiLo: 0.55, emojiHi: 1.0, emotionLo: 0.5, emotionHi: 0.9},
	{name: "skeptic", weight: 0.13, speedLo: 0.8, speedHi: 1.1, punctLo: 0.6, punctHi: 0.95, emojiLo: 0.0, emojiHi: 0.2, emotionLo: 0.25, emotionHi: 0.55},
	{name: "degen", weight: 0.17, speedLo: 1.2, speedHi: 1.7, punctLo: 0.0, punctHi: 0.3, emojiLo: 0.6, emojiHi: 1.0, emotionLo: 0.6, emotionHi: 1.0},
	{name: "newcomer", weight: 0.16, speedLo: 0.6, speedHi: 0.9, punctLo: 0.3, punctHi: 0.7, emojiLo: 0.3, emojiHi: 0.7, emotionLo: 0.4, emotionHi: 0.8},
	{name: "veteran", weight: 0.12, speedLo: 0.9, speedHi: 1.2, punctLo: 0.5, punctHi: 0.9, emojiLo: 0.1, emojiHi: 0.4, emotionLo: 0.1, emotionHi: 0.4},
	{name: "lurker", weight: 0.10, speedLo: 0.7, speedHi: 1.0, punctLo: 0.4, punctHi: 0.8, emojiLo: 0.1, emojiHi: 0.5, emotionLo: 0.2, emotionHi: 0.5},
}

func archetypeWeights() []float64 {
	w := make([]float64, len(archetypes))
	for i, a := range archetypes {
		w[i] = a.weight
	}
	return w
}
