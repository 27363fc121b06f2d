package main

// sampleCatalog is loaded by the seed command.
const sampleCatalog = `title,author,year,genre,count
Dune,Frank Herbert,1965,Fiction,3
A Brief History of Time,Stephen Hawking,1988,Science,2
The Guns of August,Barbara Tuchman,1962,History,1
The Hobbit,J.R.R. Tolkien,1937,Fantasy,2
Codex Seraphinianus,Luigi Serafini,1981,Rare,1
`
