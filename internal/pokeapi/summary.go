package pokeapi

// Summary is the flat, display-ready projection of a Pokemon record.
type Summary struct {
	ID             int
	Name           string
	Images         Images
	Types          []string
	Height         int // decimetres
	Weight         int // hectograms
	BaseExperience int
	Stats          []Stat
	Abilities      []Ability
}

// Images holds the two image candidates. Empty strings mean absent.
type Images struct {
	Primary  string // official artwork
	Fallback string // default front sprite
}

// Best returns the first available image URL, or "" when neither exists.
func (i Images) Best() string {
	if i.Primary != "" {
		return i.Primary
	}
	return i.Fallback
}

// Stat is one named base stat.
type Stat struct {
	Name  string
	Value int
}

// Ability is one named ability.
type Ability struct {
	Name     string
	IsHidden bool
}

// ToSummary projects a detail record into a Summary. It never fails: absent
// images become empty strings and nil lists become empty lists.
func ToSummary(p *Pokemon) Summary {
	if p == nil {
		return Summary{Types: []string{}, Stats: []Stat{}, Abilities: []Ability{}}
	}

	s := Summary{
		ID:             p.ID,
		Name:           p.Name,
		Height:         p.Height,
		Weight:         p.Weight,
		BaseExperience: p.BaseExperience,
		Images: Images{
			Primary:  officialArtwork(p.Sprites),
			Fallback: deref(p.Sprites.FrontDefault),
		},
		Types:     make([]string, 0, len(p.Types)),
		Stats:     make([]Stat, 0, len(p.Stats)),
		Abilities: make([]Ability, 0, len(p.Abilities)),
	}

	seen := make(map[string]struct{}, len(p.Types))
	for _, t := range p.Types {
		if _, dup := seen[t.Type.Name]; dup {
			continue
		}
		seen[t.Type.Name] = struct{}{}
		s.Types = append(s.Types, t.Type.Name)
	}
	for _, st := range p.Stats {
		s.Stats = append(s.Stats, Stat{Name: st.Stat.Name, Value: st.BaseStat})
	}
	for _, a := range p.Abilities {
		s.Abilities = append(s.Abilities, Ability{Name: a.Ability.Name, IsHidden: a.IsHidden})
	}
	return s
}

func officialArtwork(s Sprites) string {
	if s.Other == nil || s.Other.OfficialArtwork == nil {
		return ""
	}
	return deref(s.Other.OfficialArtwork.FrontDefault)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
