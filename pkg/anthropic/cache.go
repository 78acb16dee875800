package anthropic

// BuildCachedSystemBlocks wraps a static system prompt in a single system
// block with a 1h cache TTL, so repeated pipeline runs hit the prompt cache.
func BuildCachedSystemBlocks(text string) []SystemBlock {
	return []SystemBlock{
		{
			Text: text,
			CacheControl: &CacheControl{
				TTL: "1h",
			},
		},
	}
}
