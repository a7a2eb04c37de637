package server

const editPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Song.Title}}</title>
</head>
<body>
<form id="song-form">
<input name="number" value="{{.Song.Number}}">
<input name="language" value="{{.Song.Language}}">
<input name="title" value="{{.Song.Title}}">
<input name="key" value="{{.Song.Key}}">
</form>
{{.Editor}}
</body>
</html>
`
