package atom

// resolveText returns nil when the construct has no value.
func resolveText(field string, in Text) (*Text, error) {
	if in.Value == "" {
		return nil, nil
	}

	switch in.Type {
	case "", TextTypeText, TextTypeHTML, TextTypeXHTML:
	default:
		return nil, &ValidationError{Field: field + ".type", Err: ErrInvalidType}
	}

	resolved := in
	return &resolved, nil
}

func requireText(field string, in Text) (Text, error) {
	resolved, err := resolveText(field, in)
	if err != nil {
		return Text{}, err
	}
	if resolved == nil {
		return Text{}, missing(field)
	}
	return *resolved, nil
}

// resolveContent requires either an inline value or a src reference.
func resolveContent(in *Content) (Content, error) {
	if in == nil {
		return Content{}, missing("content")
	}
	if in.Value == "" && in.Src == "" {
		return Content{}, &ValidationError{Field: "content", Err: ErrInvalidContent}
	}
	return *in, nil
}
