package main

import (
	"errors"
	"io"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yomiyasu/yomiyasu/lib/annotate"
)

type HttpError struct {
	code int
	error
}

func (e HttpError) Error() string {
	return e.error.Error()
}

func NewHttpError(code int, err error) HttpError {
	return HttpError{
		code:  code,
		error: err,
	}
}

type server struct {
	controller controller
}

func (s server) RegisterRoutes(r *gin.Engine) {
	r.Use(requestID)
	r.POST("/annotate", validateBody, s.Annotate)
	r.POST("/sections", validateBody, s.Sections)
	r.GET("/levels/:kanji", s.LookupLevel)
	r.GET("/search", s.Search)
	r.GET("/health", s.Health)
}

func (s server) Health(c *gin.Context) {
	c.JSON(200, gin.H{"status": "ok"})
}

func (s server) Annotate(c *gin.Context) {
	ct, ok := allowedContentTypeEnumMap[c.ContentType()]
	if !ok {
		handleError(c, NewHttpError(400, errors.New("invalid content type - must be text/html or text/plain")))
		return
	}

	doc, err := s.controller.Annotate(c.Request.Body, ct)
	if errors.Is(err, annotate.ErrUndecodable) {
		handleError(c, NewHttpError(400, err))
		return
	} else if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(200, doc)
}

func (s server) Sections(c *gin.Context) {
	ct, ok := allowedContentTypeEnumMap[c.ContentType()]
	if !ok {
		handleError(c, NewHttpError(400, errors.New("invalid content type - must be text/html or text/plain")))
		return
	}

	sections, err := s.controller.Sections(c.Request.Body, ct)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(200, gin.H{"sections": sections})
}

func (s server) LookupLevel(c *gin.Context) {
	level, ok := s.controller.LookupLevel(c.Param("kanji"))
	if !ok {
		handleError(c, NewHttpError(400, errors.New("path parameter must be a single character")))
		return
	}
	c.JSON(200, gin.H{"kanji": c.Param("kanji"), "level": level.Attr()})
}

func (s server) Search(c *gin.Context) {
	query, ok := c.GetQuery("q")
	if !ok || query == "" {
		handleError(c, NewHttpError(400, errors.New("you must set the q query parameter")))
		return
	}
	size, _ := strconv.Atoi(c.DefaultQuery("size", "20"))

	hits, err := s.controller.Search(c.Request.Context(), query, size)
	if errors.Is(err, errSearchDisabled) {
		handleError(c, NewHttpError(404, err))
		return
	} else if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(200, gin.H{"hits": hits})
}

func requestID(c *gin.Context) {
	id := uuid.New().String()
	c.Set("request_id", id)
	c.Header("X-Request-Id", id)
	c.Next()
}

func validateBody(c *gin.Context) {
	if c.Request.Body == nil {
		handleError(c, NewHttpError(400, errors.New("request body missing")))
	} else if _, err := c.Request.Body.Read(nil); err == io.EOF {
		handleError(c, NewHttpError(400, errors.New("request body missing")))
	} else {
		c.Next()
	}
}

func handleError(c *gin.Context, err error) {
	if err == nil {
		abort(c, 500, errors.New("abort called on nil error"))
		return
	}
	switch e := err.(type) {
	case HttpError:
		abort(c, e.code, e.error)
	default:
		abort(c, 500, e)
	}
}

func abort(c *gin.Context, code int, err error) {
	switch {
	case code <= 500:
		c.JSON(code, map[string]interface{}{
			"status":  code,
			"message": err.Error(),
		})
		c.Abort()
	default:
		_ = c.AbortWithError(code, err)
	}
}
