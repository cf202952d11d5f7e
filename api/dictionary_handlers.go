package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-dream-engine/model"
)

// PutEntriesRequest is the body of POST /dictionary/entries.
type PutEntriesRequest struct {
	Entries []model.DictionaryEntry `json:"entries"`
}

// ImportRequest carries dictionary text in the line format, for example
// "가게[5][33]★★, 가방[1끝수]★".
type ImportRequest struct {
	Source string `json:"source"`
	Text   string `json:"text"`
}

// SearchKeywordsHandler finds dictionary entries for a keyword.
// Query parameters: q (required), limit (optional).
func (api *API) SearchKeywordsHandler(c *gin.Context) {
	query := c.Query("q")
	limit, result := ValidateSearchQuery(query, c.Query("limit"))
	if result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	hits, err := api.engine.Search(c.Request.Context(), query, limit)
	if err != nil {
		sendEngineError(c, "keyword search", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"query": query,
		"hits":  hits,
		"total": len(hits),
	})
}

// BrowseHandler lists dictionary entries whose word starts with an initial consonant.
func (api *API) BrowseHandler(c *gin.Context) {
	initial, result := ValidateInitial(c.Param("initial"))
	if result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	entries, err := api.engine.Dictionary().BrowseByInitial(c.Request.Context(), initial)
	if err != nil {
		sendEngineError(c, "browse", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"initial": string(initial),
		"entries": entries,
		"total":   len(entries),
	})
}

// GetEntryHandler returns one dictionary entry by sense ID.
func (api *API) GetEntryHandler(c *gin.Context) {
	id := c.Param("id")

	entry, err := api.engine.Dictionary().Get(c.Request.Context(), id)
	if err != nil {
		sendEngineError(c, "get entry", err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

// PutEntriesHandler adds or replaces dictionary entries.
func (api *API) PutEntriesHandler(c *gin.Context) {
	var req PutEntriesRequest
	if result := ValidateJSONBinding(c, &req); result.HasErrors() {
		SendValidationError(c, result)
		return
	}
	if result := ValidateEntries(req.Entries); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	ids := make([]string, 0, len(req.Entries))
	for i := range req.Entries {
		req.Entries[i] = req.Entries[i].EnsureID()
		ids = append(ids, req.Entries[i].ID)
	}

	n, err := api.engine.PutEntries(c.Request.Context(), req.Entries...)
	if err != nil {
		sendEngineError(c, "store entries", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"stored": n,
		"ids":    ids,
	})
}

// ImportDictionaryHandler parses dictionary text in a background job.
func (api *API) ImportDictionaryHandler(c *gin.Context) {
	var req ImportRequest
	if result := ValidateJSONBinding(c, &req); result.HasErrors() {
		SendValidationError(c, result)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		result := newResult()
		result.AddError("text", "Dictionary text is required")
		SendValidationError(c, result)
		return
	}
	if req.Source == "" {
		req.Source = "upload"
	}

	jobID, err := api.engine.ImportTextAsync(req.Source, req.Text)
	if err != nil {
		SendJobExecutionError(c, "import", err)
		return
	}

	sendJobAccepted(c, jobID, "Dictionary import started")
}

// SnapshotHandler writes the dictionary and the context weights to disk in a background job.
func (api *API) SnapshotHandler(c *gin.Context) {
	jobID, err := api.engine.SnapshotAsync()
	if err != nil {
		SendJobExecutionError(c, "snapshot", err)
		return
	}

	sendJobAccepted(c, jobID, "Snapshot started")
}

func sendJobAccepted(c *gin.Context, jobID, message string) {
	c.JSON(http.StatusAccepted, gin.H{
		"status":     "accepted",
		"message":    message,
		"job_id":     jobID,
		"status_url": "/jobs/" + jobID,
	})
}
