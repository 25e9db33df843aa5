package fiberlog

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	TagPid       = "pid"
	TagLatency   = "latency"
	TagMethod    = "method"
	TagPath      = "path"
	TagStatus    = "status"
	TagBody      = "body"
	TagResBody   = "resBody"
	TagIP        = "ip"
	TagUserAgent = "userAgent"
	RequestID    = "requestId"
)

// тело запроса и ответа пишется в лог не длиннее
const maxBodyLogLen = 2048

// FuncTag возвращает значение поля лога для запроса
type FuncTag func(c *fiber.Ctx, d *data) interface{}

type data struct {
	pid   int
	start time.Time
	end   time.Time
}

var funcTags = map[string]FuncTag{
	TagPid: func(_ *fiber.Ctx, d *data) interface{} {
		return d.pid
	},
	TagLatency: func(_ *fiber.Ctx, d *data) interface{} {
		return d.end.Sub(d.start).String()
	},
	TagMethod: func(c *fiber.Ctx, _ *data) interface{} {
		return c.Method()
	},
	TagPath: func(c *fiber.Ctx, _ *data) interface{} {
		return c.Path()
	},
	TagStatus: func(c *fiber.Ctx, _ *data) interface{} {
		return c.Response().StatusCode()
	},
	TagBody: func(c *fiber.Ctx, _ *data) interface{} {
		if isMultipart(c) {
			return ""
		}
		return truncate(string(c.Body()))
	},
	TagResBody: func(c *fiber.Ctx, _ *data) interface{} {
		if c.Response().Header.ContentType() != nil &&
			string(c.Response().Header.ContentType()) != fiber.MIMEApplicationJSON {
			return ""
		}
		return truncate(string(c.Response().Body()))
	},
	TagIP: func(c *fiber.Ctx, _ *data) interface{} {
		return c.IP()
	},
	TagUserAgent: func(c *fiber.Ctx, _ *data) interface{} {
		return c.Get(fiber.HeaderUserAgent)
	},
	RequestID: func(c *fiber.Ctx, _ *data) interface{} {
		return c.Get(fiber.HeaderXRequestID)
	},
}

func getFuncTagMap(cfg Config) map[string]FuncTag {
	result := make(map[string]FuncTag, len(cfg.Tags))
	for _, tag := range cfg.Tags {
		if ft, ok := funcTags[tag]; ok {
			result[tag] = ft
		}
	}
	return result
}

func isMultipart(c *fiber.Ctx) bool {
	return len(c.Request().Header.MultipartFormBoundary()) != 0
}

func truncate(value string) string {
	if len(value) <= maxBodyLogLen {
		return value
	}
	return value[:maxBodyLogLen] + "..."
}
