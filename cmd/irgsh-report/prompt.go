package main

import (
	"fmt"
	"unicode/utf8"

	"github.com/manifoldco/promptui"
)

func lengthValidator(field string, limit int) promptui.ValidateFunc {
	return func(input string) error {
		length := utf8.RuneCountInString(input)
		if length == 0 {
			return fmt.Errorf("%s should not be empty", field)
		}
		if length > limit {
			return fmt.Errorf("%s is too long %d (max %d)", field, length, limit)
		}
		return nil
	}
}

func promptField(label string, limit int) (string, error) {
	prompt := promptui.Prompt{
		Label:    label,
		Validate: lengthValidator(label, limit),
	}
	return prompt.Run()
}
