package pokeapi

import (
	"regexp"
	"strconv"
)

var resourceIDPattern = regexp.MustCompile(`/pokemon/(\d+)/?$`)

// ExtractID parses the trailing numeric segment of a /pokemon/{id}/ resource
// URL. The boolean is false when the URL carries no usable id.
func ExtractID(resourceURL string) (int, bool) {
	matches := resourceIDPattern.FindStringSubmatch(resourceURL)
	if len(matches) < 2 {
		return 0, false
	}
	id, err := strconv.Atoi(matches[1])
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
