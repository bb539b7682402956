package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"refugeflow/internal/population/models"
	"refugeflow/internal/population/service"
	dErrors "refugeflow/pkg/domain-errors"
)

// Relation endpoint defaults, matching the dashboard's landing pair.
const (
	defaultRelationOrigin  = "UA"
	defaultRelationArrival = "US"
)

// parseCategory resolves the category query parameter. An empty value falls
// back to the zero category; an unknown name is a 404, not a 400: the category
// namespace is part of the URL surface.
func parseCategory(raw string) (models.Category, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	category, err := models.ParseCategory(raw)
	if err != nil {
		return "", dErrors.New(dErrors.CodeNotFound, fmt.Sprintf("unknown category %q", raw))
	}
	return category, nil
}

func parseBool(raw string, name string, fallback bool) (bool, error) {
	if strings.TrimSpace(raw) == "" {
		return fallback, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("%s must be a boolean", name))
	}
	return v, nil
}

func parseYear(raw string) (int32, error) {
	if strings.TrimSpace(raw) == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 32)
	if err != nil || v < 0 {
		return 0, dErrors.New(dErrors.CodeBadRequest, "year must be a non-negative integer")
	}
	return int32(v), nil
}

func parseISO2(raw string, name string) (string, error) {
	iso2 := strings.ToUpper(strings.TrimSpace(raw))
	if iso2 == "" {
		return "", nil
	}
	if len(iso2) != 2 {
		return "", dErrors.New(dErrors.CodeBadRequest, fmt.Sprintf("%s must be a two-letter country code", name))
	}
	return iso2, nil
}

func parseRankingRequest(r *http.Request) (service.RankingParams, error) {
	var p service.RankingParams
	q := r.URL.Query()

	country, err := parseISO2(q.Get("country"), "country")
	if err != nil {
		return p, err
	}
	category, err := parseCategory(q.Get("category"))
	if err != nil {
		return p, err
	}
	year, err := parseYear(q.Get("year"))
	if err != nil {
		return p, err
	}
	head, err := parseBool(q.Get("head"), "head", false)
	if err != nil {
		return p, err
	}
	origin, err := parseBool(q.Get("origin"), "origin", true)
	if err != nil {
		return p, err
	}

	return service.RankingParams{
		Origin:   origin,
		Year:     year,
		Category: category,
		Country:  country,
		Head:     head,
	}, nil
}

func parseSeriesRequest(r *http.Request) (service.SeriesParams, error) {
	var p service.SeriesParams
	q := r.URL.Query()

	country, err := parseISO2(q.Get("country"), "country")
	if err != nil {
		return p, err
	}
	category, err := parseCategory(q.Get("category"))
	if err != nil {
		return p, err
	}
	origin, err := parseBool(q.Get("origin"), "origin", true)
	if err != nil {
		return p, err
	}

	return service.SeriesParams{
		Origin:   origin,
		Country:  country,
		Category: category,
	}, nil
}

func parseRelationRequest(r *http.Request) (service.RelationParams, error) {
	var p service.RelationParams
	q := r.URL.Query()

	coo, err := parseISO2(q.Get("coo"), "coo")
	if err != nil {
		return p, err
	}
	if coo == "" {
		coo = defaultRelationOrigin
	}
	coa, err := parseISO2(q.Get("coa"), "coa")
	if err != nil {
		return p, err
	}
	if coa == "" {
		coa = defaultRelationArrival
	}
	category, err := parseCategory(q.Get("category"))
	if err != nil {
		return p, err
	}

	return service.RelationParams{
		Origin:   coo,
		Arrival:  coa,
		Category: category,
	}, nil
}
