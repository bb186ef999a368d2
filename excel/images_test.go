package excel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cellImagesFixture = `<etc:cellImages xmlns:etc="http://www.wps.cn/officeDocument/2017/etCustomData"
    xmlns:xdr="http://schemas.openxmlformats.org/drawingml/2006/spreadsheetDrawing"
    xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"
    xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
  <etc:cellImage>
    <xdr:pic>
      <xdr:nvPicPr><xdr:cNvPr id="1" name="ID_ABC123"/></xdr:nvPicPr>
      <xdr:blipFill><a:blip r:embed="rId1"/></xdr:blipFill>
    </xdr:pic>
  </etc:cellImage>
</etc:cellImages>`

const cellImagesRelsFixture = `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="media/image1.png"/>
</Relationships>`

const drawingFixture = `<xdr:wsDr xmlns:xdr="http://schemas.openxmlformats.org/drawingml/2006/spreadsheetDrawing"
    xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"
    xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships">
  <xdr:twoCellAnchor>
    <xdr:from><xdr:col>2</xdr:col><xdr:colOff>0</xdr:colOff><xdr:row>5</xdr:row><xdr:rowOff>0</xdr:rowOff></xdr:from>
    <xdr:to><xdr:col>3</xdr:col><xdr:colOff>0</xdr:colOff><xdr:row>6</xdr:row><xdr:rowOff>0</xdr:rowOff></xdr:to>
    <xdr:pic>
      <xdr:nvPicPr><xdr:cNvPr id="2" name="ID_DEF456"/></xdr:nvPicPr>
      <xdr:blipFill><a:blip r:embed="rId7"/></xdr:blipFill>
    </xdr:pic>
    <xdr:clientData/>
  </xdr:twoCellAnchor>
</xdr:wsDr>`

const drawingRelsFixture = `<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
  <Relationship Id="rId7" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/image" Target="../media/image2.png"/>
</Relationships>`

func imageMedia(t *testing.T) map[string]MediaFile {
	t.Helper()
	png := tinyPNG(t)
	return map[string]MediaFile{
		"image1.png": {Data: png, Extension: "png"},
		"image2.png": {Data: png, Extension: "png"},
	}
}

func TestResolveFormulaImageFromCellImages(t *testing.T) {
	pkg, err := NewPackage(buildZip(t, map[string][]byte{
		"xl/cellimages.xml":            []byte(cellImagesFixture),
		"xl/_rels/cellimages.xml.rels": []byte(cellImagesRelsFixture),
	}))
	require.NoError(t, err)

	graph, err := BuildImageGraph(pkg, imageMedia(t))
	require.NoError(t, err)

	img := graph.ResolveFormulaImage(`=DISPIMG("ID_ABC123",1)`)
	require.NotNil(t, img)
	assert.Equal(t, "ID_ABC123", img.ID)
	assert.Equal(t, "png", img.Extension)
	assert.NotEmpty(t, img.Data)
}

func TestResolveFormulaImageDrawingFallback(t *testing.T) {
	pkg, err := NewPackage(buildZip(t, map[string][]byte{
		"xl/drawings/drawing1.xml":            []byte(drawingFixture),
		"xl/drawings/_rels/drawing1.xml.rels": []byte(drawingRelsFixture),
	}))
	require.NoError(t, err)

	graph, err := BuildImageGraph(pkg, imageMedia(t))
	require.NoError(t, err)

	img := graph.ResolveFormulaImage(`=DISPIMG("ID_DEF456",1)`)
	require.NotNil(t, img)
	assert.Equal(t, "ID_DEF456", img.ID)
}

func TestResolveFormulaImageMissingLinks(t *testing.T) {
	pkg, err := NewPackage(buildZip(t, map[string][]byte{
		"xl/cellimages.xml":            []byte(cellImagesFixture),
		"xl/_rels/cellimages.xml.rels": []byte(cellImagesRelsFixture),
	}))
	require.NoError(t, err)

	// Unknown id.
	graph, err := BuildImageGraph(pkg, imageMedia(t))
	require.NoError(t, err)
	assert.Nil(t, graph.ResolveFormulaImage(`=DISPIMG("ID_UNKNOWN",1)`))

	// Not a DISPIMG formula at all.
	assert.Nil(t, graph.ResolveFormulaImage(`=SUM(A1:A3)`))

	// Media file absent.
	graph, err = BuildImageGraph(pkg, map[string]MediaFile{})
	require.NoError(t, err)
	assert.Nil(t, graph.ResolveFormulaImage(`=DISPIMG("ID_ABC123",1)`))

	// Media bytes below the size floor.
	graph, err = BuildImageGraph(pkg, map[string]MediaFile{
		"image1.png": {Data: []byte{1, 2, 3, 4}, Extension: "png"},
	})
	require.NoError(t, err)
	assert.Nil(t, graph.ResolveFormulaImage(`=DISPIMG("ID_ABC123",1)`))
}

func TestLinkFormulaImages(t *testing.T) {
	pkg, err := NewPackage(buildZip(t, map[string][]byte{
		"xl/cellimages.xml":            []byte(cellImagesFixture),
		"xl/_rels/cellimages.xml.rels": []byte(cellImagesRelsFixture),
	}))
	require.NoError(t, err)

	graph, err := BuildImageGraph(pkg, imageMedia(t))
	require.NoError(t, err)

	formulas := map[Coord]string{
		{Row: 1, Col: 2}: `=DISPIMG("ID_ABC123",1)`,
		{Row: 2, Col: 2}: `=SUM(A1:A3)`,
		{Row: 3, Col: 2}: `=DISPIMG("ID_MISSING",1)`,
	}
	images := make(map[Coord]*EmbeddedImage)
	graph.LinkFormulaImages(formulas, images)

	require.Len(t, images, 1)
	require.Contains(t, images, Coord{Row: 1, Col: 2})
	assert.Equal(t, "ID_ABC123", images[Coord{Row: 1, Col: 2}].ID)
}

func TestLinkFloatingImages(t *testing.T) {
	pkg, err := NewPackage(buildZip(t, map[string][]byte{
		"xl/drawings/drawing1.xml":            []byte(drawingFixture),
		"xl/drawings/_rels/drawing1.xml.rels": []byte(drawingRelsFixture),
	}))
	require.NoError(t, err)

	graph, err := BuildImageGraph(pkg, imageMedia(t))
	require.NoError(t, err)

	images := make(map[Coord]*EmbeddedImage)
	graph.LinkFloatingImages(images)
	require.Contains(t, images, Coord{Row: 5, Col: 2})
	assert.Equal(t, "floating_5_2_rId7", images[Coord{Row: 5, Col: 2}].ID)

	// A formula-resolved image at the same coordinate wins.
	existing := &EmbeddedImage{ID: "ID_KEEP"}
	images = map[Coord]*EmbeddedImage{{Row: 5, Col: 2}: existing}
	graph.LinkFloatingImages(images)
	assert.Same(t, existing, images[Coord{Row: 5, Col: 2}])
}

func TestBuildImageGraphNoParts(t *testing.T) {
	pkg, err := NewPackage(buildZip(t, map[string][]byte{
		"xl/worksheets/sheet1.xml": []byte("<worksheet/>"),
	}))
	require.NoError(t, err)

	graph, err := BuildImageGraph(pkg, imageMedia(t))
	require.NoError(t, err)
	assert.Nil(t, graph.ResolveFormulaImage(`=DISPIMG("ID_ABC123",1)`))

	images := make(map[Coord]*EmbeddedImage)
	graph.LinkFloatingImages(images)
	assert.Empty(t, images)
}
