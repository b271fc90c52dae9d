package customvars

// CustomVar is a named server-side flag, like asnapStatus.
type CustomVar struct {
	ID    string `json:"id,omitempty"`
	Name  string `json:"custom_var_name"`
	Value string `json:"custom_var_value"`
}

func (v CustomVar) Equal(other CustomVar) bool {
	return v.ID == other.ID && v.Name == other.Name && v.Value == other.Value
}
