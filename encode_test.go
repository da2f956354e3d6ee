package s3presign

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestURIEncode(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		keepSlash bool
		want      string
	}{
		{name: "plain", in: "cat.jpg", want: "cat.jpg"},
		{name: "unreserved set untouched", in: "AZaz09-_.~", want: "AZaz09-_.~"},
		{name: "space", in: "hello world.txt", want: "hello%20world.txt"},
		{name: "slash kept", in: "my/image.png", keepSlash: true, want: "my/image.png"},
		{name: "slash encoded", in: "ACCESS/20240229/us-east-1", want: "ACCESS%2F20240229%2Fus-east-1"},
		{name: "query metacharacters", in: "a+b&c=d", want: "a%2Bb%26c%3Dd"},
		{name: "percent", in: "100%", want: "100%25"},
		{name: "utf-8 multibyte", in: "Scheiße.dat", want: "Schei%C3%9Fe.dat"},
		{name: "uppercase hex", in: "\x0f", want: "%0F"},
		{name: "empty", in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, uriEncode(tt.in, tt.keepSlash))
		})
	}
}
