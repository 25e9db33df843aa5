package errs

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestErrs(t *testing.T) {
	t.Run(`validation collects messages`, func(t *testing.T) {
		v := Validation{}
		require.Nil(t, v.Err())

		v.Check(true, "не выводится")
		v.Check(false, "поле %v обязательно", "name")
		v.Merge(NewValidationError("первое", "второе"))
		v.Merge(errors.New("третье"))
		v.Merge(nil)

		err := v.Err()
		require.True(t, IsValidation(err))
		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
		require.Equal(t, []string{"поле name обязательно", "первое", "второе", "третье"}, validationErr.Messages)
		require.Equal(t, "поле name обязательно; первое; второе; третье", err.Error())
	})

	t.Run(`dependency keeps domain errors`, func(t *testing.T) {
		require.Nil(t, Dependency(nil, "op"))

		notFound := NewNotFound("этап", "id-1")
		require.Equal(t, error(notFound), Dependency(notFound, "op"))
		require.True(t, IsNotFound(Dependency(errors.Wrap(notFound, "context"), "op")))

		cause := errors.New("connection reset")
		err := Dependency(cause, "ошибка получения этапа")
		var dependencyErr *DependencyError
		require.ErrorAs(t, err, &dependencyErr)
		require.Equal(t, "ошибка получения этапа", dependencyErr.Op)
		require.True(t, errors.Is(err, cause))
		require.False(t, IsNotFound(err))
		require.True(t, IsDomain(err))
	})

	t.Run(`messages`, func(t *testing.T) {
		require.Equal(t, "этап не найден (id=id-1)", NewNotFound("этап", "id-1").Error())
		require.Equal(t, "кандидат не найден", NewNotFound("кандидат", "").Error())
		require.True(t, IsConflict(NewConflict("версия %v устарела", 3)))
		require.Equal(t, "версия 3 устарела", NewConflict("версия %v устарела", 3).Error())
		ruleErr := &RuleEvaluationError{RuleID: "rule-1", Message: "нет балла"}
		require.Equal(t, "правило перехода rule-1: нет балла", ruleErr.Error())
		require.True(t, IsDomain(ruleErr))
	})
}
