package publish

// RenderMessageForTest exposes renderMessage.
var RenderMessageForTest = renderMessage
