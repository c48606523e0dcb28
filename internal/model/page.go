package model

// CorpusPage is one page of the historical flood report knowledge base,
// addressable by its original document page number. Immutable after load.
type CorpusPage struct {
	ID      int    `json:"id"`
	Page    int    `json:"page"`
	Content string `json:"content"`
}
