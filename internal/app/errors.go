package app

import (
	"errors"
	"fmt"
)

// FatalError завершает прогон: сессию не удалось сохранить или ввод оператора прерван.
type FatalError struct {
	Op  string
	Err error
}

func (e FatalError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e FatalError) Unwrap() error {
	return e.Err
}

func isFatal(err error) bool {
	var fatal FatalError
	return errors.As(err, &fatal)
}
