package ipdata

// Location is the value type of the country/city index: the resolver's
// primary lookups surface only the country code, but the underlying
// dataset carries city too, so it is carried here and exposed by
// ResolveCity.
type Location struct {
	City    string
	Country string
}

// Data holds the two preloaded prefix indexes: company ownership and
// country/city geolocation. Both are built once at startup from a static
// dataset and never mutated afterward.
type Data struct {
	Corps     *Index[string]
	Locations *Index[Location]
}

// New builds a Data set from the given loader's rows. The loader is
// responsible for supplying rows (from the embedded SQLite dataset or the
// built-in fallback table); New only builds and sorts the indexes.
func New(corps []CorpRow, locations []LocationRow) *Data {
	corpIdx := NewIndex[string]()
	for _, c := range corps {
		corpIdx.Add(c.Base, c.Bits, c.Name)
	}
	corpIdx.Build()

	locIdx := NewIndex[Location]()
	for _, l := range locations {
		locIdx.Add(l.Base, l.Bits, Location{City: l.City, Country: l.Country})
	}
	locIdx.Build()

	return &Data{Corps: corpIdx, Locations: locIdx}
}
