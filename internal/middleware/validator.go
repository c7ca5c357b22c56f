package middleware

import (
	"fmt"
	"strings"
)

// Input validation and sanitization utilities

const maxCodeBytes = 1 << 20 // 1 MiB per review request

// ValidateReviewType checks the review type against the allowed modes.
func ValidateReviewType(reviewType string) error {
	if reviewType == "" {
		return nil // optional, defaults to full
	}
	allowed := map[string]bool{
		"full":     true,
		"security": true,
		"quick":    true,
	}
	if !allowed[strings.ToLower(reviewType)] {
		return fmt.Errorf("invalid review type: %s (allowed: full, security, quick)", reviewType)
	}
	return nil
}

// ValidateCode checks review request code for emptiness and size.
func ValidateCode(code string) error {
	if strings.TrimSpace(code) == "" {
		return fmt.Errorf("code cannot be empty")
	}
	if len(code) > maxCodeBytes {
		return fmt.Errorf("code exceeds maximum size of %d bytes", maxCodeBytes)
	}
	return nil
}

// ValidateFilename rejects path traversal and control characters in
// client-supplied filenames.
func ValidateFilename(filename string) error {
	if filename == "" {
		return nil // optional field
	}
	if strings.Contains(filename, "..") {
		return fmt.Errorf("path traversal detected in filename")
	}
	for _, r := range filename {
		if r < 32 {
			return fmt.Errorf("invalid characters in filename")
		}
	}
	return nil
}

// SanitizeString removes dangerous characters from strings
func SanitizeString(input string) string {
	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	// Remove control characters
	var result strings.Builder
	for _, r := range input {
		if r >= 32 || r == '\t' || r == '\n' {
			result.WriteRune(r)
		}
	}

	return strings.TrimSpace(result.String())
}

// ValidatePage validates a pagination page number
func ValidatePage(page int) int {
	if page <= 0 {
		return 1
	}
	return page
}

// ValidatePageSize validates a pagination page size
func ValidatePageSize(size int) int {
	if size <= 0 {
		return 20 // default
	}
	if size > 100 {
		return 100 // max
	}
	return size
}

// ValidateLimit validates a list limit
func ValidateLimit(limit int) int {
	if limit <= 0 {
		return 20 // default
	}
	if limit > 100 {
		return 100 // max limit
	}
	return limit
}
