// DetectRequest is the /detect and /live input payload.
package dto

type DetectRequest struct {
	Image    string `json:"image"`
	Annotate bool   `json:"annotate,omitempty"`
}
