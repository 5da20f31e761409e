package controller

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// Pagination carries the normalized page window parsed from the query string
type Pagination struct {
	Page     int
	PageSize int
}

func (p Pagination) Limit() int  { return p.PageSize }
func (p Pagination) Offset() int { return (p.Page - 1) * p.PageSize }

// ParsePagination reads page/page_size with sane bounds
func ParsePagination(c *gin.Context) Pagination {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultPageSize)))
	if err != nil || pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return Pagination{Page: page, PageSize: pageSize}
}

// CollectionResponse is the uniform list envelope: a total count plus
// absolute links to the neighboring pages.
type CollectionResponse struct {
	Count    int64       `json:"count"`
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
	Results  interface{} `json:"results"`
}

func pageURL(c *gin.Context, page, pageSize int) *string {
	u := url.URL{Path: c.Request.URL.Path}
	q := c.Request.URL.Query()
	q.Set("page", strconv.Itoa(page))
	q.Set("page_size", strconv.Itoa(pageSize))
	u.RawQuery = q.Encode()
	s := u.String()
	return &s
}

// RespondWithCollection writes the list envelope with next/previous links
// derived from the current window.
func RespondWithCollection(c *gin.Context, p Pagination, total int64, results interface{}) {
	resp := CollectionResponse{
		Count:   total,
		Results: results,
	}
	if int64(p.Page*p.PageSize) < total {
		resp.Next = pageURL(c, p.Page+1, p.PageSize)
	}
	if p.Page > 1 {
		resp.Previous = pageURL(c, p.Page-1, p.PageSize)
	}
	c.JSON(http.StatusOK, resp)
}

// parseUintParam reads a numeric path parameter
func parseUintParam(c *gin.Context, name string) (uint, error) {
	value, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", name)
	}
	return uint(value), nil
}
