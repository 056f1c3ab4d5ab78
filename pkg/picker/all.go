package picker

// allPicker always returns every alias, in declaration order (spec.md
// §4.4 "all").
type allPicker struct {
	aliases []string
}

func (p *allPicker) Pick(ctx Context) ([]string, error) {
	return p.aliases, nil
}
