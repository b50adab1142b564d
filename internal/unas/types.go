package unas

import "encoding/xml"

// Request payloads. The API takes every call as an XML POST; listing
// calls share the <Params> root.

type loginRequest struct {
	XMLName xml.Name `xml:"Params"`
	APIKey  string   `xml:"ApiKey"`
}

type productListRequest struct {
	XMLName     xml.Name `xml:"Params"`
	StatusBase  int      `xml:"StatusBase"`
	LimitNum    int      `xml:"LimitNum"`
	LimitStart  int      `xml:"LimitStart"`
	ContentType string   `xml:"ContentType"`
}

type categoryListRequest struct {
	XMLName  xml.Name `xml:"Params"`
	LimitNum int      `xml:"LimitNum"`
}

type categoryCreateRequest struct {
	XMLName  xml.Name          `xml:"Categories"`
	Category categoryCreateOut `xml:"Category"`
}

type categoryCreateOut struct {
	Action string    `xml:"Action"`
	Parent parentRef `xml:"Parent"`
	Name   cdata     `xml:"Name"`
	SefURL cdata     `xml:"SefUrl"`
}

type parentRef struct {
	ID int64 `xml:"Id"`
}

// Response payloads. Root element names vary, so the login response
// matches any root and reads its <Token> child.

type loginResponse struct {
	XMLName xml.Name
	Token   string `xml:"Token"`
}

type productsResponse struct {
	XMLName  xml.Name    `xml:"Products"`
	Products []productIn `xml:"Product"`
}

type productIn struct {
	Sku    string    `xml:"Sku"`
	Params []paramIn `xml:"Params>Param"`
}

type paramIn struct {
	ID    string `xml:"Id"`
	Value string `xml:"Value"`
}

type categoriesResponse struct {
	XMLName    xml.Name     `xml:"Categories"`
	Categories []categoryIn `xml:"Category"`
}

type categoryIn struct {
	ID     int64  `xml:"Id"`
	Name   string `xml:"Name"`
	Parent struct {
		ID int64 `xml:"Id"`
	} `xml:"Parent"`
}
