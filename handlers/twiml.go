package handlers

import (
	"encoding/xml"
	"net/http"

	"github.com/gin-gonic/gin"
)

// TwiML is the call-control document Twilio expects back from a voice
// webhook. Element order matters: spoken lines come first, then an
// optional speech Gather, then an optional Dial transfer.
type TwiML struct {
	XMLName xml.Name     `xml:"Response"`
	Say     []TwiMLSay   `xml:"Say,omitempty"`
	Gather  *TwiMLGather `xml:"Gather,omitempty"`
	Dial    *TwiMLDial   `xml:"Dial,omitempty"`
}

type TwiMLSay struct {
	Text string `xml:",chardata"`
}

// TwiMLGather collects caller speech and posts the transcription to
// Action as SpeechResult.
type TwiMLGather struct {
	Input  string    `xml:"input,attr"`
	Action string    `xml:"action,attr"`
	Method string    `xml:"method,attr"`
	Say    *TwiMLSay `xml:"Say,omitempty"`
}

// TwiMLDial transfers the call to a number; Twilio posts the outcome to
// Action as DialCallStatus.
type TwiMLDial struct {
	Action  string `xml:"action,attr"`
	Method  string `xml:"method,attr"`
	Timeout int    `xml:"timeout,attr"`
	Number  string `xml:"Number"`
}

func gatherSpeech(action, prompt string) *TwiMLGather {
	return &TwiMLGather{
		Input:  "speech",
		Action: action,
		Method: http.MethodPost,
		Say:    &TwiMLSay{Text: prompt},
	}
}

func renderTwiML(c *gin.Context, doc *TwiML) {
	body, err := xml.Marshal(doc)
	if err != nil {
		c.String(http.StatusInternalServerError, "twiml render error")
		return
	}
	c.Data(http.StatusOK, "text/xml; charset=utf-8", append([]byte(xml.Header), body...))
}
