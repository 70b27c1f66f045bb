package pingback

import (
	"bytes"
	"encoding/xml"
	"strconv"
	"strings"
)

type methodCall struct {
	XMLName    xml.Name   `xml:"methodCall"`
	MethodName string     `xml:"methodName"`
	Params     []rpcParam `xml:"params>param"`
}

type rpcParam struct {
	Value rpcValue `xml:"value"`
}

type rpcValue struct {
	String  *string     `xml:"string,omitempty"`
	Int     *string     `xml:"int,omitempty"`
	I4      *string     `xml:"i4,omitempty"`
	Members []rpcMember `xml:"struct>member,omitempty"`
	Text    string      `xml:",chardata"`
}

type rpcMember struct {
	Name  string   `xml:"name"`
	Value rpcValue `xml:"value"`
}

type methodResponse struct {
	XMLName xml.Name   `xml:"methodResponse"`
	Params  []rpcParam `xml:"params>param"`
	Fault   *rpcValue  `xml:"fault>value"`
}

func (v rpcValue) text() string {

	switch {
	case v.String != nil:
		return *v.String
	case v.Int != nil:
		return *v.Int
	case v.I4 != nil:
		return *v.I4
	default:
		return strings.TrimSpace(v.Text)
	}
}

func (v rpcValue) member(name string) (rpcValue, bool) {

	for _, m := range v.Members {
		if m.Name == name {
			return m.Value, true
		}
	}

	return rpcValue{}, false
}

func encodeCall(method string, args ...string) ([]byte, error) {

	call := methodCall{MethodName: method}
	for _, arg := range args {
		arg := arg
		call.Params = append(call.Params, rpcParam{Value: rpcValue{String: &arg}})
	}

	body, err := xml.Marshal(call)
	if err != nil {
		return nil, err
	}

	return append([]byte(xml.Header), body...), nil
}

// decodeResponse returns the first string parameter of a response, or the fault code when the
// server answered with a fault.
func decodeResponse(body []byte) (string, *int, error) {

	var resp methodResponse
	if err := xml.NewDecoder(bytes.NewReader(body)).Decode(&resp); err != nil {
		return "", nil, err
	}

	if resp.Fault != nil {

		code := FaultGeneric
		if v, ok := resp.Fault.member("faultCode"); ok {
			if n, err := strconv.Atoi(v.text()); err == nil {
				code = n
			}
		}

		return "", &code, nil
	}

	if len(resp.Params) == 0 {
		return "", nil, nil
	}

	return resp.Params[0].Value.text(), nil, nil
}
