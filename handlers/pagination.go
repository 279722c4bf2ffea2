package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

type pageParams struct {
	Number int
	Size   int
}

func (p pageParams) Offset() int {
	return (p.Number - 1) * p.Size
}

// readPage reads ?page and the size parameter named sizeKey. A missing or
// non-positive size falls back to def, and sizes above limit are capped.
func readPage(c *fiber.Ctx, sizeKey string, def, limit int) pageParams {
	number, _ := strconv.Atoi(c.Query("page"))
	if number < 1 {
		number = 1
	}
	size, _ := strconv.Atoi(c.Query(sizeKey))
	switch {
	case size < 1:
		size = def
	case size > limit:
		size = limit
	}
	return pageParams{Number: number, Size: size}
}
