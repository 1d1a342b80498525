package barcode

import (
	"bytes"
	"encoding/base64"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestEncoder(t *testing.T) {
	suite.Run(t, new(encoderTestSuite))
}

type encoderTestSuite struct {
	suite.Suite

	encoder *Encoder
}

func (suite *encoderTestSuite) SetupTest() {
	suite.encoder = NewEncoder()
}

func (suite *encoderTestSuite) TestValidBarcode() {
	encoded, err := suite.encoder.EncodeBase64("123456789")
	require.NoError(suite.T(), err)

	// first 6 bytes of the png header in base64
	assert.True(suite.T(), strings.HasPrefix(encoded, "iVBORw0K"))

	data, err := base64.StdEncoding.DecodeString(encoded)
	require.NoError(suite.T(), err)

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(suite.T(), err)
	assert.True(suite.T(), img.Bounds().Dx() > 0)
	assert.True(suite.T(), img.Bounds().Dy() > barHeight)
}

func (suite *encoderTestSuite) TestBarcodeWithSpecialCharacters() {
	encoded, err := suite.encoder.EncodeBase64("abcABC!@#$%^&*()_+|/")
	require.NoError(suite.T(), err)
	assert.NotEmpty(suite.T(), encoded)

	_, err = base64.StdEncoding.DecodeString(encoded)
	assert.NoError(suite.T(), err)
}

func (suite *encoderTestSuite) TestBlankBarcode() {
	for _, value := range []string{"", "   "} {
		encoded, err := suite.encoder.EncodeBase64(value)
		assert.NoError(suite.T(), err)
		assert.Empty(suite.T(), encoded)

		data, err := suite.encoder.Encode(value)
		assert.NoError(suite.T(), err)
		assert.Empty(suite.T(), data)
	}
}

func (suite *encoderTestSuite) TestOutputIsDeterministic() {
	first, err := suite.encoder.Encode("4539876054382")
	require.NoError(suite.T(), err)

	second, err := suite.encoder.Encode("4539876054382")
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), first, second)
}

func (suite *encoderTestSuite) TestLongerValuesProduceWiderImages() {
	short, err := suite.encoder.Encode("1")
	require.NoError(suite.T(), err)
	long, err := suite.encoder.Encode("1234567890123")
	require.NoError(suite.T(), err)

	shortImg, err := png.Decode(bytes.NewReader(short))
	require.NoError(suite.T(), err)
	longImg, err := png.Decode(bytes.NewReader(long))
	require.NoError(suite.T(), err)

	assert.True(suite.T(), longImg.Bounds().Dx() > shortImg.Bounds().Dx())
}

func (suite *encoderTestSuite) TestCheckEnvironment() {
	assert.NoError(suite.T(), suite.encoder.CheckEnvironment())
}
