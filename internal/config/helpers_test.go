package config_test

import "sdnsurvey/internal/survey"

func presentValue(text string) survey.Value {
	return survey.Present(text)
}
