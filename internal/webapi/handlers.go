package webapi

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/clifford-labs/stabsim/internal/logger"
	"github.com/clifford-labs/stabsim/qc/stab/executor"
	"github.com/clifford-labs/stabsim/qc/stab/parser"
	"github.com/clifford-labs/stabsim/qc/stab/sample"
)

const internalServerErrorMsg = "internal server error"

type handlers struct {
	log   *logger.Logger
	store ProgramStore
}

// postProgram parses the request body as a stabilizer-circuit program
// and stores it, returning its id.
func (h *handlers) postProgram(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read body"})
		return
	}

	instrs, err := parser.Parse(string(body))
	if err != nil {
		var se *parser.SyntaxError
		if errors.As(err, &se) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.log.Error().Err(err).Msg("webapi: unexpected parse failure")
		c.String(http.StatusInternalServerError, internalServerErrorMsg)
		return
	}

	id := h.store.Save(string(body), instrs)
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// getProgram echoes back the raw source text of a stored program.
func (h *handlers) getProgram(c *gin.Context) {
	id := c.Param("id")
	source, _, err := h.store.Get(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	c.String(http.StatusOK, source)
}

// postSample runs a stored program for a requested number of shots and
// returns the per-outcome histogram as JSON.
func (h *handlers) postSample(c *gin.Context) {
	id := c.Param("id")
	_, instrs, err := h.store.Get(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	shots := queryInt(c, "shots", 1024)
	seed := queryInt64(c, "seed", 0)
	workers := queryInt(c, "workers", 0)

	runner := sample.NewRunner(instrs, sample.Options{Shots: shots, Seed: seed, Workers: workers})
	results, err := runner.RunAll()
	if err != nil {
		var semErr *executor.SemanticError
		if errors.As(err, &semErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.log.Error().Err(err).Msg("webapi: sample run failed")
		c.String(http.StatusInternalServerError, internalServerErrorMsg)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"shots":     len(results),
		"histogram": sample.MeasurementHistogram(results),
	})
}

func queryInt(c *gin.Context, key string, def int) int {
	v := c.Query(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func queryInt64(c *gin.Context, key string, def int64) int64 {
	v := c.Query(key)
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}
	return n
}
