package validation

import (
	"strings"
	"unicode/utf8"

	"github.com/ignatzorin/services-marketplace/internal/pkg/apperror"
)

// Константы валидации
const (
	MinJobTitleLength       = 3
	MaxJobTitleLength       = 200
	MinJobDescriptionLength = 10
	MaxJobDescriptionLength = 5000
	MinQuoteMessageLength   = 10
	MaxQuoteMessageLength   = 2000
	MaxDisputeReasonLength  = 2000
	MaxDisputeMessageLength = 5000
	MaxCategoriesCount      = 10
)

// ValidateLength проверяет длину строки.
func ValidateLength(fieldName, value string, min, max int) error {
	length := utf8.RuneCountInString(value)
	if min > 0 && length < min {
		return apperror.Newf(apperror.ErrCodeValidation, "%s должен быть не менее %d символов", fieldName, min)
	}
	if max > 0 && length > max {
		return apperror.Newf(apperror.ErrCodeValidation, "%s должен быть не более %d символов", fieldName, max)
	}
	return nil
}

// ValidateNonEmpty проверяет, что строка не пустая.
func ValidateNonEmpty(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		return apperror.Newf(apperror.ErrCodeValidation, "%s не может быть пустым", fieldName)
	}
	return nil
}

// ValidateJobTitle проверяет заголовок заявки.
func ValidateJobTitle(title string) error {
	if title == "" {
		return apperror.New(apperror.ErrCodeValidation, "заголовок заявки обязателен")
	}
	return ValidateLength("заголовок заявки", strings.TrimSpace(title), MinJobTitleLength, MaxJobTitleLength)
}

// ValidateJobDescription проверяет описание заявки.
func ValidateJobDescription(description string) error {
	if description == "" {
		return apperror.New(apperror.ErrCodeValidation, "описание заявки обязательно")
	}
	return ValidateLength("описание заявки", strings.TrimSpace(description), MinJobDescriptionLength, MaxJobDescriptionLength)
}

// ValidateQuoteMessage проверяет сопроводительное сообщение отклика.
func ValidateQuoteMessage(message string) error {
	if message == "" {
		return apperror.New(apperror.ErrCodeValidation, "сообщение отклика обязательно")
	}
	return ValidateLength("сообщение отклика", strings.TrimSpace(message), MinQuoteMessageLength, MaxQuoteMessageLength)
}

// ValidateDisputeReason проверяет причину спора.
func ValidateDisputeReason(reason string) error {
	if strings.TrimSpace(reason) == "" {
		return apperror.New(apperror.ErrCodeValidation, "причина спора обязательна")
	}
	return ValidateLength("причина спора", strings.TrimSpace(reason), 1, MaxDisputeReasonLength)
}

// SanitizeText обрезает пробелы и схлопывает повторяющиеся переводы строк.
func SanitizeText(value string) string {
	value = strings.TrimSpace(value)
	for strings.Contains(value, "\n\n\n") {
		value = strings.ReplaceAll(value, "\n\n\n", "\n\n")
	}
	return value
}
