package metadata

// MergeOver returns the record with any unset fields filled in from
// parent. Child values always win; parent values only fill gaps.
// This implements the common-block inheritance used by dataset and
// table metadata: a dataset-level license or origin list applies to
// every table and column that does not override it.
func (r Record) MergeOver(parent Record) Record {
	out := r.Clone()

	if out.Title == "" {
		out.Title = parent.Title
	}
	if out.Unit == "" {
		out.Unit = parent.Unit
	}
	if out.ShortUnit == "" {
		out.ShortUnit = parent.ShortUnit
	}
	if out.ProcessingLevel == "" {
		out.ProcessingLevel = parent.ProcessingLevel
	}
	if out.Checksum == "" {
		out.Checksum = parent.Checksum
	}
	if out.License == nil && parent.License != nil {
		lic := *parent.License
		out.License = &lic
	}
	if len(out.Origins) == 0 && len(parent.Origins) > 0 {
		out.Origins = append([]Origin(nil), parent.Origins...)
	}

	// out's description and presentation are already deep copies, so
	// the merge never aliases r's slices or maps.
	out.Description = out.Description.mergeOver(parent.Description)
	out.Presentation = mergePresentation(out.Presentation, parent.Presentation)

	return out
}

func (d Description) mergeOver(parent Description) Description {
	out := d
	if out.Short == "" {
		out.Short = parent.Short
	}
	if out.Processing == "" {
		out.Processing = parent.Processing
	}
	if out.FromProducer == "" {
		out.FromProducer = parent.FromProducer
	}
	if len(out.Key) == 0 {
		out.Key = append([]string(nil), parent.Key...)
	}
	return out
}

// mergePresentation fills the child's unset display fields from the
// parent. The child must already be a private copy; values taken from
// the parent are copied, never aliased.
func mergePresentation(child, parent *Presentation) *Presentation {
	if child == nil {
		return parent.clone()
	}
	if parent == nil {
		return child
	}

	out := *child
	if out.Title == "" {
		out.Title = parent.Title
	}
	if out.Attribution == "" {
		out.Attribution = parent.Attribution
	}
	if out.AttributionShort == "" {
		out.AttributionShort = parent.AttributionShort
	}
	if len(out.TopicTags) == 0 {
		out.TopicTags = append([]string(nil), parent.TopicTags...)
	}
	if out.GrapherConfig == nil && parent.GrapherConfig != nil {
		cfg := make(map[string]any, len(parent.GrapherConfig))
		for k, v := range parent.GrapherConfig {
			cfg[k] = v
		}
		out.GrapherConfig = cfg
	}
	return &out
}
