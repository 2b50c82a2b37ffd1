package main

// Greeting is the entity of the greetings resource.
type Greeting struct {
	Message string   `json:"message"`
	Tone    string   `json:"tone,omitempty"`
	Tags    []string `json:"tags,omitempty"`
	Author  *Author  `json:"author,omitempty"`
}

type Author struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}
