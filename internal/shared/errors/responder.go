package errors

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
)

// ContentTypeProblemJSON is the media type of problem responses.
const ContentTypeProblemJSON = "application/problem+json"

// Rule maps every error wrapping one of Sentinels to Problem.
type Rule struct {
	Problem   ProblemDetail
	Sentinels []error
}

// Map builds a Rule.
func Map(problem ProblemDetail, sentinels ...error) Rule {
	return Rule{Problem: problem, Sentinels: sentinels}
}

func (r Rule) match(err error) (ProblemDetail, bool) {
	for _, sentinel := range r.Sentinels {
		if errors.Is(err, sentinel) {
			return r.Problem.WithDetail(err.Error()), true
		}
	}
	return ProblemDetail{}, false
}

// Responder writes problem documents. Rules are tried in order; unmatched errors
// become ErrInternal with the cause attached to the gin context for logging.
type Responder struct {
	baseURI string
	rules   []Rule
}

// NewResponder creates a responder. A non-empty baseURI prefixes relative problem types.
func NewResponder(baseURI string, rules ...Rule) *Responder {
	return &Responder{baseURI: strings.TrimSuffix(baseURI, "/"), rules: rules}
}

// Respond writes problem, defaulting Instance to the request path.
func (r *Responder) Respond(c *gin.Context, problem ProblemDetail) {
	if r.baseURI != "" && strings.HasPrefix(problem.Type, "/") {
		problem.Type = r.baseURI + problem.Type
	}
	if problem.Instance == "" && c.Request != nil {
		problem.Instance = c.Request.URL.Path
	}
	c.Header("Content-Type", ContentTypeProblemJSON)
	c.JSON(problem.Status, problem)
}

// RespondError classifies err and writes the matching problem.
func (r *Responder) RespondError(c *gin.Context, err error) {
	r.Respond(c, r.Classify(c, err))
}

// Classify resolves err to a problem without writing it. c may be nil.
func (r *Responder) Classify(c *gin.Context, err error) ProblemDetail {
	var problem ProblemDetail
	if errors.As(err, &problem) {
		return problem
	}
	for _, rule := range r.rules {
		if p, ok := rule.match(err); ok {
			return p
		}
	}
	if c != nil {
		_ = c.Error(err)
	}
	return ErrInternal.WithDetail("unexpected error")
}
