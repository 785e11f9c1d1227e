package source

// Builtin returns the built-in catalog. Reddit is the default; Mashable and
// Digg refuse direct cross-origin requests and go through the relay.
func Builtin() []Descriptor {
	return []Descriptor{
		{Name: RedditName, Endpoint: redditEndpoint, IsDefault: true, Normalizer: Reddit{}},
		{Name: MashableName, Endpoint: mashableEndpoint, RequiresRelay: true, Normalizer: Mashable{}},
		{Name: DiggName, Endpoint: diggEndpoint, RequiresRelay: true, Normalizer: Digg{}},
		{Name: HackerNewsName, Endpoint: hnEndpoint, Normalizer: HackerNews{}},
	}
}

// BuiltinNames lists the names of the built-in sources in catalog order.
func BuiltinNames() []string {
	descs := Builtin()
	names := make([]string, 0, len(descs))
	for _, d := range descs {
		names = append(names, d.Name)
	}
	return names
}
