package pokeapi

// ListResponse mirrors the payload returned by GET /pokemon.
type ListResponse struct {
	Count    int       `json:"count"`
	Next     *string   `json:"next"`
	Previous *string   `json:"previous"`
	Results  []ListRef `json:"results"`
}

// ListRef is the opaque reference the list endpoint returns for each entry.
type ListRef struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// ID returns the numeric id parsed from the reference URL.
func (r ListRef) ID() (int, bool) {
	return ExtractID(r.URL)
}

// CollectionPage is one fetched window of the collection. Pages are never
// mutated after they are returned.
type CollectionPage struct {
	Count      int
	Offset     int
	Limit      int
	Items      []ListRef
	NextOffset *int
}

// NamedResource is the name+url pair PokeAPI uses for every nested reference.
type NamedResource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Pokemon mirrors the subset of GET /pokemon/{idOrName} the browser cares about.
type Pokemon struct {
	ID             int             `json:"id"`
	Name           string          `json:"name"`
	BaseExperience int             `json:"base_experience"`
	Height         int             `json:"height"`
	Weight         int             `json:"weight"`
	IsDefault      bool            `json:"is_default"`
	Order          int             `json:"order"`
	Abilities      []AbilitySlot   `json:"abilities"`
	Forms          []NamedResource `json:"forms"`
	Species        NamedResource   `json:"species"`
	Sprites        Sprites         `json:"sprites"`
	Stats          []StatEntry     `json:"stats"`
	Types          []TypeSlot      `json:"types"`
}

// AbilitySlot is one entry of the ability list.
type AbilitySlot struct {
	IsHidden bool          `json:"is_hidden"`
	Slot     int           `json:"slot"`
	Ability  NamedResource `json:"ability"`
}

// StatEntry is one base stat.
type StatEntry struct {
	BaseStat int           `json:"base_stat"`
	Effort   int           `json:"effort"`
	Stat     NamedResource `json:"stat"`
}

// TypeSlot is one entry of the type list.
type TypeSlot struct {
	Slot int           `json:"slot"`
	Type NamedResource `json:"type"`
}

// Sprites holds image URLs. Every field may be null upstream.
type Sprites struct {
	FrontDefault *string      `json:"front_default"`
	FrontShiny   *string      `json:"front_shiny"`
	BackDefault  *string      `json:"back_default"`
	BackShiny    *string      `json:"back_shiny"`
	Other        *OtherSprite `json:"other"`
}

// OtherSprite groups the alternate artwork sets.
type OtherSprite struct {
	DreamWorld      *Artwork `json:"dream_world"`
	Home            *Artwork `json:"home"`
	OfficialArtwork *Artwork `json:"official-artwork"`
}

// Artwork is a front-facing image pair.
type Artwork struct {
	FrontDefault *string `json:"front_default"`
	FrontShiny   *string `json:"front_shiny"`
}
