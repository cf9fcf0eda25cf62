package checksum

import (
	"crypto/sha256"
	"fmt"
)

type Generator struct{}

func NewGenerator() *Generator {
	return &Generator{}
}

// GenerateContentHash returns hex SHA256(url|content).
func (g *Generator) GenerateContentHash(url, content string) string {
	hash := sha256.Sum256([]byte(fmt.Sprintf("%s|%s", url, content)))
	return fmt.Sprintf("%x", hash)
}
