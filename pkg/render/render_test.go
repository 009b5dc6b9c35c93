package render_test

import (
	"testing"

	"github.com/bbrhub/mailblast/pkg/render"
	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	tpl := render.Template{
		Name:    "invite",
		Subject: "Hi {name}",
		Body:    "<p>{name}, your code is {code}</p>",
	}

	t.Run("substitutes subject and body", func(t *testing.T) {
		subject, body := render.Render(tpl, map[string]string{
			"name": "Alice",
			"code": "123",
		})

		assert.Equal(t, "Hi Alice", subject)
		assert.Equal(t, "<p>Alice, your code is 123</p>", body)
	})

	t.Run("missing key stays literal", func(t *testing.T) {
		subject, body := render.Render(tpl, map[string]string{"name": "Alice"})

		assert.Equal(t, "Hi Alice", subject)
		assert.Equal(t, "<p>Alice, your code is {code}</p>", body)
	})

	t.Run("empty data leaves template untouched", func(t *testing.T) {
		subject, body := render.Render(tpl, nil)

		assert.Equal(t, tpl.Subject, subject)
		assert.Equal(t, tpl.Body, body)
	})

	t.Run("pure function, same input same output", func(t *testing.T) {
		data := map[string]string{"name": "张三", "code": "9"}

		s1, b1 := render.Render(tpl, data)
		s2, b2 := render.Render(tpl, data)

		assert.Equal(t, s1, s2)
		assert.Equal(t, b1, b2)
		assert.Equal(t, map[string]string{"name": "张三", "code": "9"}, data)
	})
}

func TestMerge(t *testing.T) {
	t.Run("later map wins on collision", func(t *testing.T) {
		defaults := map[string]string{"name": "测试", "city": "Beijing"}
		row := map[string]string{"name": "张三"}

		merged := render.Merge(defaults, row)

		assert.Equal(t, "张三", merged["name"])
		assert.Equal(t, "Beijing", merged["city"])
	})

	t.Run("inputs not mutated", func(t *testing.T) {
		defaults := map[string]string{"name": "测试"}
		row := map[string]string{"name": "张三"}

		_ = render.Merge(defaults, row)

		assert.Equal(t, "测试", defaults["name"])
	})
}
