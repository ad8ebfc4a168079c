package models

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPostString(t *testing.T) {
	p := Post{ID: 7, Title: "Hello", Body: "world"}

	assert.Equal(t, "myApp: Hello", p.String())
	assert.Equal(t, "myApp: Hello", fmt.Sprint(p))
}
