package stargen

import "fmt"

// Category classifies a star.
type Category uint8

const (
	// MainSeqPP is a main-sequence star fusing through the proton-proton chain.
	MainSeqPP Category = iota
	// MainSeqCNO is a main-sequence star fusing through the CNO cycle.
	MainSeqCNO
	// Giant is a giant below 1380 L☉.
	Giant
	// SuperGiant is a giant between 1380 L☉ and 138000 L☉.
	SuperGiant
	// HyperGiant is a giant above 138000 L☉.
	HyperGiant
	// WhiteDwarf is a compact star below the Chandrasekhar limit.
	WhiteDwarf
	// NeutronStar is a compact star between 1.4 M☉ and 2.2 M☉.
	NeutronStar
	// QuarkStar is a compact star between 2.2 M☉ and 3 M☉.
	QuarkStar
	// BlackHole is a compact star above 3 M☉.
	BlackHole
)

// Categories lists every category in declaration order.
var Categories = [...]Category{
	MainSeqPP, MainSeqCNO,
	Giant, SuperGiant, HyperGiant,
	WhiteDwarf, NeutronStar, QuarkStar, BlackHole,
}

func (c Category) Valid() bool {
	return c <= BlackHole
}

func (c Category) String() string {
	switch c {
	case MainSeqPP:
		return "main-sequence-pp"
	case MainSeqCNO:
		return "main-sequence-cno"
	case Giant:
		return "giant"
	case SuperGiant:
		return "super-giant"
	case HyperGiant:
		return "hyper-giant"
	case WhiteDwarf:
		return "white-dwarf"
	case NeutronStar:
		return "neutron-star"
	case QuarkStar:
		return "quark-star"
	case BlackHole:
		return "black-hole"
	default:
		panic(fmt.Sprintf("stargen: unknown category %d", uint8(c)))
	}
}

// MainSequence reports whether the star fuses hydrogen in its core.
func (c Category) MainSequence() bool {
	switch c {
	case MainSeqPP, MainSeqCNO:
		return true
	case Giant, SuperGiant, HyperGiant, WhiteDwarf, NeutronStar, QuarkStar, BlackHole:
		return false
	default:
		panic(fmt.Sprintf("stargen: unknown category %d", uint8(c)))
	}
}

func (c Category) Giant() bool {
	switch c {
	case Giant, SuperGiant, HyperGiant:
		return true
	case MainSeqPP, MainSeqCNO, WhiteDwarf, NeutronStar, QuarkStar, BlackHole:
		return false
	default:
		panic(fmt.Sprintf("stargen: unknown category %d", uint8(c)))
	}
}

// Degenerate reports a compact star that is not a black hole.
func (c Category) Degenerate() bool {
	switch c {
	case WhiteDwarf, NeutronStar, QuarkStar:
		return true
	case MainSeqPP, MainSeqCNO, Giant, SuperGiant, HyperGiant, BlackHole:
		return false
	default:
		panic(fmt.Sprintf("stargen: unknown category %d", uint8(c)))
	}
}

// Compact reports a stellar remnant.
func (c Category) Compact() bool {
	return c == BlackHole || c.Degenerate()
}

// Stage is the evolutionary stage a star is generated at.
type Stage uint8

const (
	MainSequence Stage = iota
	GiantStage
	CompactStage
)

func (s Stage) String() string {
	switch s {
	case MainSequence:
		return "main-sequence"
	case GiantStage:
		return "giant"
	case CompactStage:
		return "compact"
	default:
		panic(fmt.Sprintf("stargen: unknown stage %d", uint8(s)))
	}
}
