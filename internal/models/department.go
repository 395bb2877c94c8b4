package models

// Department is a fixed administrative category an issue is routed to.
type Department struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Icon     string `json:"icon"`
	ColorTag string `json:"color_tag"`
}
